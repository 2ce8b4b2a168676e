package db

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

// ErrDuplicateSession is returned by InsertAISession when a session row for
// the same window key already exists. Callers treat it as prior success.
var ErrDuplicateSession = errors.New("session already exists for window")

// InsertAISession stores a new session row. A UNIQUE violation on the window
// key (source_type, source_name, team_port, started_at) is mapped to
// ErrDuplicateSession so repeated processing passes stay idempotent.
func InsertAISession(s *AISession) error {
	return insertAISession(GetDB(), s)
}

func insertAISession(dbc *sql.DB, s *AISession) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Status == "" {
		s.Status = SessionStatusActive
	}
	if s.CreatedAt == 0 {
		s.CreatedAt = NowMs()
	}

	_, err := dbc.Exec(`
		INSERT INTO ai_sessions
			(id, project_id, project_uuid, project_slug, team_port, source_type, source_name, status, raw_content, message_count, started_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.ProjectID, s.ProjectUUID, s.ProjectSlug, s.TeamPort, s.SourceType, s.SourceName,
		s.Status, s.RawContent, s.MessageCount, s.StartedAt, s.CreatedAt)

	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrDuplicateSession
		}
		return err
	}

	return nil
}

// ListAISessions returns the most recent session rows
func ListAISessions(limit int) ([]AISession, error) {
	rows, err := GetDB().Query(`
		SELECT id, project_id, project_uuid, project_slug, team_port, source_type, source_name, status, raw_content, message_count, started_at, created_at
		FROM ai_sessions
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []AISession
	for rows.Next() {
		var s AISession
		if err := rows.Scan(
			&s.ID, &s.ProjectID, &s.ProjectUUID, &s.ProjectSlug, &s.TeamPort,
			&s.SourceType, &s.SourceName, &s.Status, &s.RawContent,
			&s.MessageCount, &s.StartedAt, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

// CountAISessions returns the total number of session rows
func CountAISessions() (int64, error) {
	var count int64
	err := GetDB().QueryRow(`SELECT COUNT(*) FROM ai_sessions`).Scan(&count)
	return count, err
}
