package http

import (
	"github.com/gin-gonic/gin"

	"tabvault/internal/middleware"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods.
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	rg.POST("/signin", mw.RateLimit(), h.SignIn)
	rg.POST("/signout", h.SignOut)
	rg.GET("/state", h.State)
	rg.POST("/ensure", h.Ensure)
}
