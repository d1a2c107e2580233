package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio_admin/internal/handlers"
)

// RegisterRoutes wires every handler under the versioned API group.
func RegisterRoutes(r *gin.Engine, h *handlers.AppHandlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		h.Auth.RegisterRoutes(api)
		h.Portfolio.RegisterRoutes(api)
		h.TechStack.RegisterRoutes(api)
		h.File.RegisterRoutes(api)
	}
}
