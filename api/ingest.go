package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/xiaoyuanzhu-com/ai-session-hub/db"
	"github.com/xiaoyuanzhu-com/ai-session-hub/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // terminal feeders connect from arbitrary hosts
	},
}

// ingestFrame is one raw activity fragment pushed by a terminal feeder
type ingestFrame struct {
	SourceType    string  `json:"source_type"`
	SessionFile   string  `json:"session_file"`
	ProjectSlug   *string `json:"project_slug,omitempty"`
	ProjectFolder *string `json:"project_folder,omitempty"`
	TeamPort      *int    `json:"team_port,omitempty"`
	Content       string  `json:"content"`
	Timestamp     *int64  `json:"timestamp,omitempty"` // epoch ms at the source
}

// ingestAck confirms how many frames a connection has delivered
type ingestAck struct {
	OK       bool   `json:"ok"`
	Received int    `json:"received"`
	Error    string `json:"error,omitempty"`
}

// IngestTerminal accepts a WebSocket connection from a terminal feeder and
// stores each JSON frame as a raw record. Reconnect/backoff policy belongs
// to the remote feeder; the handler just reads until the connection drops.
func (h *Handlers) IngestTerminal(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade ingest connection")
		return
	}
	defer conn.Close()
	log.MarkHijacked(c)

	remote := c.ClientIP()
	log.Info().Str("remote", remote).Msg("terminal feeder connected")

	received := 0
	for {
		var frame ingestFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Str("remote", remote).Msg("terminal feeder connection lost")
			}
			break
		}

		if frame.Content == "" {
			_ = conn.WriteJSON(ingestAck{OK: false, Received: received, Error: "content is required"})
			continue
		}
		if frame.SourceType == "" {
			frame.SourceType = "terminal"
		}

		record := &db.RawRecord{
			SourceType:        frame.SourceType,
			SessionFile:       frame.SessionFile,
			ProjectSlug:       frame.ProjectSlug,
			ProjectFolder:     frame.ProjectFolder,
			TeamPort:          frame.TeamPort,
			Content:           frame.Content,
			OriginalTimestamp: frame.Timestamp,
		}
		if err := db.InsertRawRecord(record); err != nil {
			log.Error().Err(err).Str("remote", remote).Msg("failed to insert raw record")
			_ = conn.WriteJSON(ingestAck{OK: false, Received: received, Error: "store failure"})
			continue
		}

		received++
		_ = conn.WriteJSON(ingestAck{OK: true, Received: received})
	}

	log.Info().Str("remote", remote).Int("received", received).Msg("terminal feeder disconnected")
}
