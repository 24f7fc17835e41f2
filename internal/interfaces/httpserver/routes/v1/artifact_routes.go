package v1

import (
	"github.com/gin-gonic/gin"

	"jan-server/services/agent-gateway/internal/interfaces/httpserver/handlers"
)

func registerArtifactRoutes(router gin.IRoutes, handler *handlers.ArtifactHandler) {
	// Artifact routes nested under threads
	router.POST("/threads/:thread_id/artifacts", handler.CreateBulk)
	router.GET("/threads/:thread_id/artifacts", handler.ListByThread)

	// Direct artifact routes
	router.GET("/artifacts/:artifact_id", handler.Get)
	router.GET("/artifacts/:artifact_id/download", handler.Download)
	router.GET("/artifacts/:artifact_id/files", handler.ListFiles)
	router.DELETE("/artifacts/:artifact_id", handler.Delete)
}
