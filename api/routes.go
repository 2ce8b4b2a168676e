package api

import (
	"github.com/gin-gonic/gin"
	"github.com/xiaoyuanzhu-com/ai-session-hub/workers/sessions"
)

// Handlers carries the components API handlers need
type Handlers struct {
	sessionWorker *sessions.Worker
}

// NewHandlers creates the API handler set
func NewHandlers(sessionWorker *sessions.Worker) *Handlers {
	return &Handlers{sessionWorker: sessionWorker}
}

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api")

	// Health
	api.GET("/health", h.GetHealth)

	// Session processing
	api.POST("/sessions/process", h.ProcessSessions)
	api.GET("/sessions", h.GetSessions)

	// Projects
	api.GET("/projects", h.GetProjects)
	api.POST("/projects", h.CreateProject)

	// Stats
	api.GET("/stats", h.GetStats)

	// Terminal ingest (WebSocket)
	api.GET("/ingest/terminal", h.IngestTerminal)
}
