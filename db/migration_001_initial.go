package db

import (
	"database/sql"

	"github.com/google/uuid"
)

func init() {
	RegisterMigration(Migration{
		Version:     1,
		Description: "Initial schema: raw_records, projects, ai_sessions",
		Up:          migration001_initial,
	})
}

func migration001_initial(db *sql.DB) error {
	// Raw records table. Rows are produced by the ingestion feed and only
	// ever read + flagged processed by the session processor.
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS raw_records (
			id TEXT PRIMARY KEY,
			source_type TEXT,
			session_file TEXT,
			project_slug TEXT,
			project_folder TEXT,
			team_port INTEGER,
			content TEXT NOT NULL,
			original_timestamp INTEGER,
			received_at INTEGER NOT NULL,
			processed INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_raw_records_processed ON raw_records(processed, original_timestamp, received_at);
	`)
	if err != nil {
		return err
	}

	// Projects table, queried by slug during session persistence.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS projects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			uuid TEXT NOT NULL UNIQUE,
			slug TEXT NOT NULL UNIQUE,
			name TEXT,
			created_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return err
	}

	// AI sessions table. The unique index on the window key is what makes
	// repeated processing passes idempotent. A table-level UNIQUE would
	// treat NULL team_port values as distinct, so the index collapses a
	// missing port to 0 — the same default the window key uses.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS ai_sessions (
			id TEXT PRIMARY KEY,
			project_id INTEGER NOT NULL,
			project_uuid TEXT NOT NULL,
			project_slug TEXT NOT NULL,
			team_port INTEGER,
			source_type TEXT NOT NULL,
			source_name TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			raw_content TEXT NOT NULL,
			message_count INTEGER NOT NULL,
			started_at INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE UNIQUE INDEX IF NOT EXISTS ux_ai_sessions_window
			ON ai_sessions(source_type, source_name, COALESCE(team_port, 0), started_at);
		CREATE INDEX IF NOT EXISTS idx_ai_sessions_project ON ai_sessions(project_slug, started_at);
	`)
	if err != nil {
		return err
	}

	// Seed the sentinel project so unresolved windows always have a home.
	_, err = db.Exec(`
		INSERT INTO projects (uuid, slug, name, created_at)
		SELECT ?, 'unassigned', 'Unassigned', ?
		WHERE NOT EXISTS (SELECT 1 FROM projects WHERE slug = 'unassigned')
	`, uuid.New().String(), NowMs())
	return err
}
