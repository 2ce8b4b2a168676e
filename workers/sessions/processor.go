package sessions

import (
	"errors"
	"strings"

	"github.com/xiaoyuanzhu-com/ai-session-hub/db"
	"github.com/xiaoyuanzhu-com/ai-session-hub/log"
	"github.com/xiaoyuanzhu-com/ai-session-hub/resolve"
)

// minSessionContent is the window content length below which a window is
// treated as noise: its records are consumed but no session row is created.
const minSessionContent = 100

// Summary reports the outcome of one processing pass
type Summary struct {
	Processed int `json:"processed"`
	Sessions  int `json:"sessions"`
	Errors    int `json:"errors"`
}

// Processor runs one batch pass: fetch unprocessed raw records, aggregate
// them into windows, resolve each window's project identity, persist session
// rows idempotently, and mark the consumed records.
type Processor struct {
	store     Store
	resolver  *resolve.Resolver
	batchSize int
}

// NewProcessor creates a processor over the given store and resolver
func NewProcessor(store Store, resolver *resolve.Resolver, batchSize int) *Processor {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Processor{
		store:     store,
		resolver:  resolver,
		batchSize: batchSize,
	}
}

// Run executes one processing pass. It never returns an error: every failure
// class degrades to "count and continue" or "retry on next pass", and the
// pass always produces a summary.
func (p *Processor) Run() Summary {
	var summary Summary

	records, err := p.store.ListUnprocessedRawRecords(p.batchSize)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch unprocessed records")
		summary.Errors++
		return summary
	}

	if len(records) == 0 {
		log.Debug().Msg("no unprocessed records")
		return summary
	}

	windows := aggregateWindows(records)
	log.Info().
		Int("records", len(records)).
		Int("windows", len(windows)).
		Msg("aggregated raw records")

	for _, w := range windows {
		p.processWindow(w, &summary)
	}

	log.Info().
		Int("processed", summary.Processed).
		Int("sessions", summary.Sessions).
		Int("errors", summary.Errors).
		Msg("processing pass complete")

	return summary
}

// processWindow resolves, filters, persists, and marks one window. Failures
// are isolated to the window: records are left unprocessed for retry, which
// is safe because session inserts are duplicate-key idempotent.
func (p *Processor) processWindow(w *sessionWindow, summary *Summary) {
	cwd, _ := resolve.ExtractCwd(w.Content)

	identity := p.resolver.Resolve(resolve.WindowInfo{
		SourceType:    w.SourceType,
		SessionFile:   w.SourceName,
		ProjectSlug:   w.ProjectSlug,
		ProjectFolder: w.ProjectFolder,
		TeamPort:      w.TeamPort,
		Content:       w.Content,
	}, cwd)

	// A resolver-supplied port wins; the window's own port is the fallback.
	port := identity.Port
	if port == nil {
		port = w.TeamPort
	}

	// Windows with almost no content are noise: consume the records but
	// don't create a session row. The threshold applies to the joined
	// member content, without the aggregator's final trailing newline.
	rawContent := strings.TrimSuffix(w.Content, "\n")
	if len(rawContent) < minSessionContent {
		log.Debug().
			Str("source", w.SourceName).
			Int("length", len(rawContent)).
			Msg("window below content threshold, skipping")
		p.markWindowProcessed(w, summary)
		return
	}

	project, err := p.projectFor(identity.Slug)
	if err != nil {
		log.Error().Err(err).Str("slug", identity.Slug).Msg("project lookup failed")
		summary.Errors++
		return
	}

	session := &db.AISession{
		ProjectID:    project.ID,
		ProjectUUID:  project.UUID,
		ProjectSlug:  identity.Slug,
		TeamPort:     port,
		SourceType:   w.SourceType,
		SourceName:   w.SourceName,
		Status:       db.SessionStatusActive,
		RawContent:   rawContent,
		MessageCount: strings.Count(rawContent, "\n") + 1,
		StartedAt:    w.WindowStart,
	}

	err = p.store.InsertAISession(session)
	switch {
	case errors.Is(err, db.ErrDuplicateSession):
		// Another pass already created this window's session.
		log.Debug().
			Str("source", w.SourceName).
			Int64("windowStart", w.WindowStart).
			Msg("session already exists, skipping insert")
	case err != nil:
		// Leave the window's records unprocessed for retry on the next pass.
		log.Error().Err(err).
			Str("slug", identity.Slug).
			Str("source", w.SourceName).
			Msg("failed to persist session")
		summary.Errors++
		return
	default:
		summary.Sessions++
		log.Info().
			Str("slug", identity.Slug).
			Str("reason", string(identity.Reason)).
			Str("detail", identity.Detail).
			Str("source", w.SourceName).
			Int64("windowStart", w.WindowStart).
			Msg("session created")
	}

	p.markWindowProcessed(w, summary)
}

// projectFor looks up the project for a resolved slug, falling back to the
// sentinel "unassigned" project when the slug is not registered.
func (p *Processor) projectFor(slug string) (*db.Project, error) {
	project, err := p.store.GetProjectBySlug(slug)
	if err != nil {
		return nil, err
	}
	if project != nil {
		return project, nil
	}

	project, err = p.store.GetProjectBySlug(db.UnassignedSlug)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errors.New("unassigned project missing")
	}
	return project, nil
}

// markWindowProcessed flips the processed flag on every member record,
// tolerating individual failures: a record that fails to be marked stays
// eligible for reprocessing, which the idempotent insert makes safe.
func (p *Processor) markWindowProcessed(w *sessionWindow, summary *Summary) {
	for _, id := range w.RecordIDs {
		if err := p.store.MarkRawRecordProcessed(id); err != nil {
			log.Warn().Err(err).Str("id", id).Msg("failed to mark record processed")
			continue
		}
		summary.Processed++
	}
}
