package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/treats-api/controllers"
)

func DefaultRoutes(server *gin.Engine, h *controllers.Handler) {
	server.GET("/", h.GetHome)
	server.GET("/healthz", h.Healthz)
}
