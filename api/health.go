package api

import (
	"github.com/gin-gonic/gin"
	"github.com/xiaoyuanzhu-com/ai-session-hub/db"
)

// GetHealth reports liveness and database reachability
func (h *Handlers) GetHealth(c *gin.Context) {
	if err := db.Ping(); err != nil {
		RespondInternalError(c, "database unreachable: "+err.Error())
		return
	}

	RespondData(c, gin.H{"status": "ok"})
}
