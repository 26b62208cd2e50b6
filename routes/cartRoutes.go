package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/treats-api/controllers"
)

func CartRoutes(api *gin.RouterGroup, h *controllers.Handler, requireAuth gin.HandlerFunc) {
	cart := api.Group("/cart", requireAuth)
	{
		cart.GET("", h.GetCart)
		cart.POST("", h.AddToCart)
		cart.POST("/update", h.UpdateCartItem)
		cart.DELETE("/remove", h.RemoveFromCart)
		cart.DELETE("", h.ClearCart)
	}
}
