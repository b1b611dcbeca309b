package handler

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the JSON API under api (usually /api/v1).
func (h *AuthorHandler) RegisterRoutes(api *gin.RouterGroup) {
	authors := api.Group("/authors")
	{
		authors.POST("", h.Create)
		authors.GET("", h.GetAll)
		authors.GET("/export", h.Export)
		authors.POST("/import", h.Import)
		authors.DELETE("/bulk", h.BulkDelete)
		authors.GET("/:id", h.GetByID)
		authors.PUT("/:id", h.Update)
		authors.DELETE("/:id", h.Delete)
	}
}

// RegisterCatalogRoutes mounts the detail route every Author.URL() points at.
func (h *AuthorHandler) RegisterCatalogRoutes(r gin.IRouter) {
	r.GET("/catalog/author/:id", h.GetByID)
}
