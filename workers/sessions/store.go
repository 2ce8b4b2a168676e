package sessions

import (
	"github.com/xiaoyuanzhu-com/ai-session-hub/db"
)

// Store is the minimal record-store surface the processor needs. The db
// package provides the real implementation; tests use fakes.
type Store interface {
	ListUnprocessedRawRecords(limit int) ([]db.RawRecord, error)
	GetProjectBySlug(slug string) (*db.Project, error)
	InsertAISession(s *db.AISession) error
	MarkRawRecordProcessed(id string) error
}

// dbStore adapts the db package's query functions to the Store interface
type dbStore struct{}

// NewDBStore returns a Store backed by the application database
func NewDBStore() Store {
	return dbStore{}
}

func (dbStore) ListUnprocessedRawRecords(limit int) ([]db.RawRecord, error) {
	return db.ListUnprocessedRawRecords(limit)
}

func (dbStore) GetProjectBySlug(slug string) (*db.Project, error) {
	return db.GetProjectBySlug(slug)
}

func (dbStore) InsertAISession(s *db.AISession) error {
	return db.InsertAISession(s)
}

func (dbStore) MarkRawRecordProcessed(id string) error {
	return db.MarkRawRecordProcessed(id)
}
