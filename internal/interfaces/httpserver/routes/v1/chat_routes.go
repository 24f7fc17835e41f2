package v1

import (
	"github.com/gin-gonic/gin"

	"jan-server/services/agent-gateway/internal/interfaces/httpserver/handlers"
)

func registerChatRoutes(router gin.IRoutes, handler *handlers.ChatHandler) {
	router.POST("/threads/:thread_id/messages", handler.RecordMessages)
	router.GET("/threads/:thread_id/messages", handler.ListMessages)
	router.GET("/chat/stream", handler.StreamChat)
}
