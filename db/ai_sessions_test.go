package db

import (
	"database/sql"
	"errors"
	"testing"
)

// openTestDB opens an in-memory database with the real migrations applied
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbc, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { dbc.Close() })

	if err := runMigrations(dbc); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return dbc
}

func testSession(port *int, startedAt int64) *AISession {
	return &AISession{
		ProjectID:    1,
		ProjectUUID:  "uuid-unassigned",
		ProjectSlug:  UnassignedSlug,
		TeamPort:     port,
		SourceType:   "terminal",
		SourceName:   "tty1",
		RawContent:   "output",
		MessageCount: 1,
		StartedAt:    startedAt,
	}
}

func TestInsertAISession_DuplicateWindowWithPort(t *testing.T) {
	dbc := openTestDB(t)
	port := 5401

	if err := insertAISession(dbc, testSession(&port, 1800000)); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	err := insertAISession(dbc, testSession(&port, 1800000))
	if !errors.Is(err, ErrDuplicateSession) {
		t.Errorf("expected ErrDuplicateSession, got %v", err)
	}
}

// A window with no port must collide with a replay of itself: NULLs are
// distinct under SQLite UNIQUE constraints, so the window-key index has to
// collapse a missing port instead of letting replays insert a second row.
func TestInsertAISession_DuplicateWindowWithoutPort(t *testing.T) {
	dbc := openTestDB(t)

	if err := insertAISession(dbc, testSession(nil, 1800000)); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	err := insertAISession(dbc, testSession(nil, 1800000))
	if !errors.Is(err, ErrDuplicateSession) {
		t.Errorf("expected ErrDuplicateSession for NULL-port replay, got %v", err)
	}

	var count int
	if err := dbc.QueryRow(`SELECT COUNT(*) FROM ai_sessions`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected exactly one row for the window key, got %d", count)
	}
}

func TestInsertAISession_DistinctWindowsInsert(t *testing.T) {
	dbc := openTestDB(t)
	portA, portB := 5401, 5402

	cases := []*AISession{
		testSession(&portA, 1800000),
		testSession(&portB, 1800000), // same window start, different port
		testSession(&portA, 3600000), // same port, next window
		testSession(nil, 3600000),    // no port, next window
	}
	for i, s := range cases {
		if err := insertAISession(dbc, s); err != nil {
			t.Errorf("insert %d: expected success, got %v", i, err)
		}
	}
}
