package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/treats-api/controllers"
	"github.com/Kariqs/treats-api/middlewares"
)

func CheckoutRoutes(api *gin.RouterGroup, h *controllers.Handler, requireAuth gin.HandlerFunc) {
	api.POST("/orders", requireAuth, h.CreateOrder)
	api.POST("/orders/:orderID/capture", requireAuth, h.CaptureOrder)

	api.POST("/send-confirmation", h.SendConfirmation)
	api.GET("/get-all-confirmations", requireAuth, middlewares.RequireAdmin(), h.GetAllConfirmations)
}
