package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/treats-api/controllers"
	"github.com/Kariqs/treats-api/middlewares"
)

func ProductRoutes(api *gin.RouterGroup, h *controllers.Handler, requireAuth gin.HandlerFunc) {
	api.GET("/products", h.GetProducts)
	api.GET("/products/:id", h.GetProduct)

	admin := api.Group("", requireAuth, middlewares.RequireAdmin())
	{
		admin.POST("/products", h.CreateProduct)
		admin.PUT("/update_product/:id", h.UpdateProduct)
		admin.DELETE("/delete_product/:id", h.DeleteProduct)
		admin.POST("/products/:id/image", h.UploadProductImage)
	}
}
