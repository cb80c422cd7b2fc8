package http

import (
	"github.com/gin-gonic/gin"

	"tabvault/internal/middleware"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods.
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	rg.POST("/push", mw.RateLimit(), h.Push)
	rg.POST("/pull", mw.RateLimit(), h.Pull)
	rg.POST("/create", mw.RateLimit(), h.Create)
}
