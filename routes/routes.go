package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/treats-api/controllers"
	"github.com/Kariqs/treats-api/middlewares"
)

// Register mounts every route of the API on server.
func Register(server *gin.Engine, h *controllers.Handler, jwtSecret string) {
	requireAuth := middlewares.RequireAuth(jwtSecret)

	DefaultRoutes(server, h)

	api := server.Group("/api")
	AuthRoutes(api, h, requireAuth)
	ProductRoutes(api, h, requireAuth)
	CartRoutes(api, h, requireAuth)
	PromoRoutes(api, h, requireAuth)
	CheckoutRoutes(api, h, requireAuth)
}
