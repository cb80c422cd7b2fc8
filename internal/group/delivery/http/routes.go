package http

import (
	"github.com/gin-gonic/gin"

	"tabvault/internal/middleware"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods.
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	groups := rg.Group("/groups")
	{
		groups.GET("", h.ListGroups)
		groups.POST("", mw.RateLimit(), h.CreateGroup)
		groups.PUT("/order", h.ReorderGroups)
		groups.PUT("/:id", h.SaveGroup)
		groups.DELETE("/:id", h.DeleteGroup)
		groups.POST("/:id/tabs", h.AddTabs)
		groups.PUT("/:id/tabs/order", h.ReorderTabs)
		groups.DELETE("/:id/tabs/:tabId", h.RemoveTab)
		groups.POST("/:id/tabs/:tabId/move", h.MoveTab)
	}

	settings := rg.Group("/settings")
	{
		settings.GET("", h.GetSettings)
		settings.PUT("", h.SaveSettings)
	}
}
