package v1

import (
	"github.com/gin-gonic/gin"

	"jan-server/services/agent-gateway/internal/interfaces/httpserver/handlers"
)

func registerThreadRoutes(router gin.IRoutes, handler *handlers.ThreadHandler) {
	router.POST("/threads", handler.Create)
	router.GET("/threads", handler.List)
	router.GET("/threads/:thread_id", handler.Get)
	router.PATCH("/threads/:thread_id", handler.Update)
	router.POST("/threads/:thread_id/archive", handler.Archive)
	router.POST("/threads/:thread_id/restore", handler.Restore)
	router.DELETE("/threads/:thread_id", handler.Delete)
}
