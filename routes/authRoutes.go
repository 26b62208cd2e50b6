package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/treats-api/controllers"
	"github.com/Kariqs/treats-api/middlewares"
)

func AuthRoutes(api *gin.RouterGroup, h *controllers.Handler, requireAuth gin.HandlerFunc) {
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/logout", requireAuth, h.Logout)
	api.GET("/protected", requireAuth, h.Protected)
	api.PUT("/update_user", requireAuth, h.UpdateUser)

	api.POST("/register_admin", h.RegisterAdmin)
	api.POST("/login_admin", h.LoginAdmin)
	api.GET("/admin_details", requireAuth, middlewares.RequireAdmin(), h.AdminDetails)
}
