package middleware

import (
	"net/http"
	"runtime/debug"

	"catalog-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Recovery turns a panic into the standard error envelope. gin's own
// writer is disabled; the panic goes to zerolog with its stack.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, err any) {
		log.Error().
			Str("request_id", c.GetString(RequestIDKey)).
			Interface("error", err).
			Bytes("stack", debug.Stack()).
			Msg("Panic recovered")

		response.Abort(c, http.StatusInternalServerError, "Internal server error", gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "internal server error",
		})
	})
}
