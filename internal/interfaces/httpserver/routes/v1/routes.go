package v1

import (
	"github.com/gin-gonic/gin"

	"jan-server/services/agent-gateway/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

// NewRoutes builds the v1 route registrar.
func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{
		handlers: handlerProvider,
	}
}

// Register attaches all v1 routes under /v1 prefix. The supplied middleware
// guards the whole group.
func (r *Routes) Register(engine *gin.Engine, middleware ...gin.HandlerFunc) {
	group := engine.Group("/v1", middleware...)
	registerThreadRoutes(group, r.handlers.Thread)
	registerChatRoutes(group, r.handlers.Chat)
	registerArtifactRoutes(group, r.handlers.Artifact)
	registerFeedbackRoutes(group, r.handlers.Feedback)
}
