package sessions

import (
	"errors"
	"strings"
	"testing"

	"github.com/xiaoyuanzhu-com/ai-session-hub/db"
	"github.com/xiaoyuanzhu-com/ai-session-hub/resolve"
)

// fakeStore implements Store in memory
type fakeStore struct {
	records  []db.RawRecord
	projects map[string]*db.Project

	fetchErr  error
	insertErr map[int64]error // keyed by started_at; nil key absent = success

	inserted []*db.AISession
	marked   map[string]bool
	markErr  map[string]error
}

func newFakeStore(records ...db.RawRecord) *fakeStore {
	return &fakeStore{
		records: records,
		projects: map[string]*db.Project{
			"unassigned": {ID: 1, UUID: "uuid-unassigned", Slug: "unassigned"},
		},
		insertErr: make(map[int64]error),
		marked:    make(map[string]bool),
		markErr:   make(map[string]error),
	}
}

func (s *fakeStore) ListUnprocessedRawRecords(limit int) ([]db.RawRecord, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	if len(s.records) > limit {
		return s.records[:limit], nil
	}
	return s.records, nil
}

func (s *fakeStore) GetProjectBySlug(slug string) (*db.Project, error) {
	return s.projects[slug], nil
}

func (s *fakeStore) InsertAISession(sess *db.AISession) error {
	if err, ok := s.insertErr[sess.StartedAt]; ok {
		return err
	}
	s.inserted = append(s.inserted, sess)
	return nil
}

func (s *fakeStore) MarkRawRecordProcessed(id string) error {
	if err, ok := s.markErr[id]; ok {
		return err
	}
	s.marked[id] = true
	return nil
}

func longContent(prefix string) string {
	return prefix + " " + strings.Repeat("log line output ", 10)
}

func newProcessor(store Store) *Processor {
	return NewProcessor(store, resolve.NewDefault(), 500)
}

func TestRun_FetchFailureAbortsPass(t *testing.T) {
	store := newFakeStore()
	store.fetchErr = errors.New("store down")

	summary := newProcessor(store).Run()
	if summary.Errors != 1 || summary.Processed != 0 || summary.Sessions != 0 {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestRun_EmptyBatch(t *testing.T) {
	summary := newProcessor(newFakeStore()).Run()
	if summary != (Summary{}) {
		t.Errorf("expected zero summary, got %+v", summary)
	}
}

func TestRun_PathDerivedSession(t *testing.T) {
	base := windowSizeMs * 50
	a := record("a", base+1000, longContent(`"cwd": "/srv/ai-chad-5401/work"`))
	b := record("b", base+2000, longContent("more output"))
	store := newFakeStore(a, b)

	summary := newProcessor(store).Run()

	if summary.Sessions != 1 {
		t.Fatalf("expected 1 session, got %d", summary.Sessions)
	}
	if summary.Processed != 2 || summary.Errors != 0 {
		t.Errorf("unexpected summary %+v", summary)
	}

	sess := store.inserted[0]
	if sess.ProjectSlug != "ai-chad-5401" {
		t.Errorf("expected slug ai-chad-5401, got %q", sess.ProjectSlug)
	}
	if sess.TeamPort == nil || *sess.TeamPort != 5401 {
		t.Errorf("expected port 5401, got %v", sess.TeamPort)
	}
	if sess.StartedAt != base {
		t.Errorf("expected started_at %d, got %d", base, sess.StartedAt)
	}
	if sess.Status != db.SessionStatusActive {
		t.Errorf("expected active status, got %q", sess.Status)
	}
	// Unknown slug falls back to the unassigned project identity while
	// keeping the resolved slug on the row.
	if sess.ProjectID != 1 || sess.ProjectUUID != "uuid-unassigned" {
		t.Errorf("expected unassigned project fallback, got %d/%q", sess.ProjectID, sess.ProjectUUID)
	}
	if !store.marked["a"] || !store.marked["b"] {
		t.Error("expected both records marked processed")
	}
}

func TestRun_RegisteredProjectIdentity(t *testing.T) {
	base := windowSizeMs * 51
	a := record("a", base+1000, longContent(`"cwd": "/srv/ai-chad-5401/work"`))
	store := newFakeStore(a)
	store.projects["ai-chad-5401"] = &db.Project{ID: 7, UUID: "uuid-chad", Slug: "ai-chad-5401"}

	newProcessor(store).Run()

	sess := store.inserted[0]
	if sess.ProjectID != 7 || sess.ProjectUUID != "uuid-chad" {
		t.Errorf("expected registered project identity, got %d/%q", sess.ProjectID, sess.ProjectUUID)
	}
}

func TestRun_ShortWindowConsumedWithoutSession(t *testing.T) {
	a := record("a", windowSizeMs*52, "short")
	store := newFakeStore(a)

	summary := newProcessor(store).Run()

	if summary.Sessions != 0 {
		t.Errorf("expected no sessions, got %d", summary.Sessions)
	}
	if summary.Processed != 1 {
		t.Errorf("expected record consumed, got %d", summary.Processed)
	}
	if len(store.inserted) != 0 {
		t.Errorf("expected no insert, got %d", len(store.inserted))
	}
	if !store.marked["a"] {
		t.Error("expected short-window record marked processed")
	}
}

func TestRun_ContentThresholdIgnoresTrailingNewline(t *testing.T) {
	// A lone 99-char record is still under the threshold: the newline the
	// aggregator appends per member doesn't count toward the content length.
	a := record("a", windowSizeMs*63, strings.Repeat("x", 99))
	store := newFakeStore(a)

	summary := newProcessor(store).Run()
	if summary.Sessions != 0 || len(store.inserted) != 0 {
		t.Errorf("99-char window should be filtered, got %+v", summary)
	}
	if !store.marked["a"] {
		t.Error("filtered record should still be marked processed")
	}

	// At exactly 100 chars the window survives.
	b := record("b", windowSizeMs*64, strings.Repeat("x", 100))
	store = newFakeStore(b)

	summary = newProcessor(store).Run()
	if summary.Sessions != 1 || len(store.inserted) != 1 {
		t.Errorf("100-char window should produce a session, got %+v", summary)
	}
}

func TestRun_DuplicateKeyTreatedAsSuccess(t *testing.T) {
	base := windowSizeMs * 53
	a := record("a", base+1000, longContent("output"))
	store := newFakeStore(a)
	store.insertErr[base] = db.ErrDuplicateSession

	summary := newProcessor(store).Run()

	if summary.Errors != 0 {
		t.Errorf("duplicate key must not count as an error, got %d", summary.Errors)
	}
	if summary.Sessions != 0 {
		t.Errorf("duplicate key must not count as a new session, got %d", summary.Sessions)
	}
	if summary.Processed != 1 || !store.marked["a"] {
		t.Error("records of a duplicate window must still be marked processed")
	}
}

func TestRun_InsertFailureLeavesRecordsForRetry(t *testing.T) {
	base := windowSizeMs * 54
	a := record("a", base+1000, longContent("output"))
	store := newFakeStore(a)
	store.insertErr[base] = errors.New("disk full")

	summary := newProcessor(store).Run()

	if summary.Errors != 1 {
		t.Errorf("expected 1 error, got %d", summary.Errors)
	}
	if summary.Processed != 0 || store.marked["a"] {
		t.Error("records of a failed window must stay unprocessed")
	}
}

func TestRun_WindowFailureIsIsolated(t *testing.T) {
	badBase := windowSizeMs * 55
	goodBase := windowSizeMs * 56
	a := record("a", badBase+1000, longContent("bad window"))
	b := record("b", goodBase+1000, longContent("good window"))
	store := newFakeStore(a, b)
	store.insertErr[badBase] = errors.New("disk full")

	summary := newProcessor(store).Run()

	if summary.Errors != 1 || summary.Sessions != 1 {
		t.Errorf("unexpected summary %+v", summary)
	}
	if store.marked["a"] || !store.marked["b"] {
		t.Errorf("failure must be isolated per window: %v", store.marked)
	}
}

func TestRun_MarkFailureToleratedPerRecord(t *testing.T) {
	base := windowSizeMs * 57
	a := record("a", base+1000, longContent("output"))
	b := record("b", base+2000, longContent("more"))
	store := newFakeStore(a, b)
	store.markErr["a"] = errors.New("timeout")

	summary := newProcessor(store).Run()

	if summary.Sessions != 1 {
		t.Errorf("expected session despite mark failure, got %d", summary.Sessions)
	}
	if summary.Processed != 1 || !store.marked["b"] {
		t.Errorf("expected the other record still marked: %+v %v", summary, store.marked)
	}
}

func TestRun_ResolverPortWinsOverWindowPort(t *testing.T) {
	base := windowSizeMs * 58
	a := record("a", base+1000, longContent(`"cwd": "/srv/ai-jen-5402/work"`))
	a.TeamPort = intp(4999)
	store := newFakeStore(a)

	newProcessor(store).Run()

	if sess := store.inserted[0]; sess.TeamPort == nil || *sess.TeamPort != 5402 {
		t.Errorf("expected resolver port 5402, got %v", sess.TeamPort)
	}
}

func TestRun_WindowPortFallbackWhenResolverSilent(t *testing.T) {
	base := windowSizeMs * 59
	a := record("a", base+1000, longContent("plain output with no signals"))
	a.TeamPort = intp(4321)
	store := newFakeStore(a)

	newProcessor(store).Run()

	sess := store.inserted[0]
	if sess.ProjectSlug != "unassigned" {
		t.Errorf("expected unassigned, got %q", sess.ProjectSlug)
	}
	if sess.TeamPort == nil || *sess.TeamPort != 4321 {
		t.Errorf("expected window port fallback 4321, got %v", sess.TeamPort)
	}
}

func TestRun_LowTrustLabelWithHomePathIsUnassigned(t *testing.T) {
	base := windowSizeMs * 60
	a := record("a", base+1000, longContent(`"cwd":"/home/bob/project-5401/x"`))
	a.ProjectSlug = strp("ai-team")
	store := newFakeStore(a)

	summary := newProcessor(store).Run()

	if summary.Sessions != 1 {
		t.Fatalf("expected 1 session, got %d", summary.Sessions)
	}
	if sess := store.inserted[0]; sess.ProjectSlug != "unassigned" {
		t.Errorf("expected unassigned, got %q", sess.ProjectSlug)
	}
}

func TestRun_MessageCount(t *testing.T) {
	base := windowSizeMs * 61
	a := record("a", base+1000, longContent("first"))
	b := record("b", base+2000, longContent("second"))
	c := record("c", base+3000, longContent("third"))
	store := newFakeStore(a, b, c)

	newProcessor(store).Run()

	sess := store.inserted[0]
	want := strings.Count(sess.RawContent, "\n") + 1
	if sess.MessageCount != want {
		t.Errorf("message count %d does not match content: want %d", sess.MessageCount, want)
	}
	if strings.HasSuffix(sess.RawContent, "\n") {
		t.Error("raw content should not keep the trailing newline")
	}
}
