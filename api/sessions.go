package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xiaoyuanzhu-com/ai-session-hub/db"
)

// ProcessSessions runs one processing pass on demand and returns its summary
func (h *Handlers) ProcessSessions(c *gin.Context) {
	summary := h.sessionWorker.TriggerNow()
	RespondData(c, summary)
}

// GetSessions returns the most recent session rows
func (h *Handlers) GetSessions(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	sessions, err := db.ListAISessions(limit)
	if err != nil {
		RespondInternalError(c, "failed to list sessions: "+err.Error())
		return
	}

	RespondList(c, sessions)
}

// GetStats reports record and session counts
func (h *Handlers) GetStats(c *gin.Context) {
	total, unprocessed, err := db.CountRawRecords()
	if err != nil {
		RespondInternalError(c, "failed to count raw records: "+err.Error())
		return
	}

	sessionCount, err := db.CountAISessions()
	if err != nil {
		RespondInternalError(c, "failed to count sessions: "+err.Error())
		return
	}

	RespondData(c, gin.H{
		"rawRecords":  total,
		"unprocessed": unprocessed,
		"sessions":    sessionCount,
	})
}
