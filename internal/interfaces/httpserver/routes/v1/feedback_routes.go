package v1

import (
	"github.com/gin-gonic/gin"

	"jan-server/services/agent-gateway/internal/interfaces/httpserver/handlers"
)

func registerFeedbackRoutes(router gin.IRoutes, handler *handlers.FeedbackHandler) {
	router.POST("/threads/:thread_id/feedback", handler.Submit)
	router.GET("/threads/:thread_id/feedback", handler.Get)
}
