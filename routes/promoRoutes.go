package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/treats-api/controllers"
	"github.com/Kariqs/treats-api/middlewares"
)

func PromoRoutes(api *gin.RouterGroup, h *controllers.Handler, requireAuth gin.HandlerFunc) {
	promos := api.Group("/promo-codes")
	{
		promos.GET("", h.GetPromoCodes)
		promos.GET("/:id", h.GetPromoCode)
		promos.POST("", requireAuth, middlewares.RequireAdmin(), h.CreatePromoCode)
		promos.PUT("/:id", requireAuth, middlewares.RequireAdmin(), h.UpdatePromoCode)
		promos.DELETE("/:id", requireAuth, middlewares.RequireAdmin(), h.DeletePromoCode)
	}
}
