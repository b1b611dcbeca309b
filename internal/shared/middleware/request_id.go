package middleware

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
)

const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

// RequestID reuses an incoming X-Request-ID or generates a UUID, echoes it
// on the response and stores it under RequestIDKey for later middleware.
func RequestID() gin.HandlerFunc {
	return requestid.New(
		requestid.WithCustomHeaderStrKey(RequestIDHeader),
		requestid.WithHandler(func(c *gin.Context, id string) {
			c.Set(RequestIDKey, id)
		}),
	)
}
