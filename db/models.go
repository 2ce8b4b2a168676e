package db

import "time"

// RawRecord is one ingested activity fragment (terminal output or a chat
// transcript piece). Ownership belongs to the ingestion feed; the session
// processor only reads rows and flips Processed.
type RawRecord struct {
	ID                string  `json:"id"`
	SourceType        string  `json:"source_type"`
	SessionFile       string  `json:"session_file"`
	ProjectSlug       *string `json:"project_slug,omitempty"`
	ProjectFolder     *string `json:"project_folder,omitempty"`
	TeamPort          *int    `json:"team_port,omitempty"`
	Content           string  `json:"content"`
	OriginalTimestamp *int64  `json:"original_timestamp,omitempty"`
	ReceivedAt        int64   `json:"received_at"`
	Processed         bool    `json:"processed"`
}

// Timestamp returns the record's effective timestamp in epoch milliseconds,
// preferring the original timestamp over the receive time.
func (r *RawRecord) Timestamp() int64 {
	if r.OriginalTimestamp != nil {
		return *r.OriginalTimestamp
	}
	return r.ReceivedAt
}

// Project is a registered project identity, queried by slug
type Project struct {
	ID        int64  `json:"id"`
	UUID      string `json:"uuid"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
}

// AISession is one persisted session row per surviving window
type AISession struct {
	ID           string `json:"id"`
	ProjectID    int64  `json:"project_id"`
	ProjectUUID  string `json:"project_uuid"`
	ProjectSlug  string `json:"project_slug"`
	TeamPort     *int   `json:"team_port,omitempty"`
	SourceType   string `json:"source_type"`
	SourceName   string `json:"source_name"`
	Status       string `json:"status"`
	RawContent   string `json:"raw_content"`
	MessageCount int    `json:"message_count"`
	StartedAt    int64  `json:"started_at"`
	CreatedAt    int64  `json:"created_at"`
}

// SessionStatus constants
const (
	SessionStatusActive = "active"
)

// UnassignedSlug is the sentinel project slug for unresolved windows
const UnassignedSlug = "unassigned"

// NowMs returns the current time in epoch milliseconds
func NowMs() int64 {
	return time.Now().UnixMilli()
}
