package sessions

import (
	"github.com/xiaoyuanzhu-com/ai-session-hub/db"
)

// windowSizeMs is the fixed span of a session window: 30 minutes
const windowSizeMs int64 = 30 * 60 * 1000

// windowKey identifies a session window. Missing record fields get stable
// defaults so records without a source type, file, or port still land in a
// well-defined bucket.
type windowKey struct {
	sourceType  string
	sessionFile string
	teamPort    int
	windowStart int64
}

// sessionWindow is an in-memory aggregate of the raw records sharing one
// window key. It exists only for the duration of a processing pass.
type sessionWindow struct {
	SourceType  string
	SourceName  string
	TeamPort    *int // actual port, nil when absent from every member
	WindowStart int64

	// First non-empty caller-supplied metadata seen in the window.
	ProjectSlug   string
	ProjectFolder string

	Content   string // member contents, each with a trailing newline
	RecordIDs []string
	MinTS     int64
	MaxTS     int64
}

// windowStart floors a timestamp to its window boundary
func windowStart(ts int64) int64 {
	return ts / windowSizeMs * windowSizeMs
}

// aggregateWindows groups a batch of raw records into session windows.
// Pure function of its input: no side effects, and grouping is stable under
// reordering of the batch (only content readability depends on order).
func aggregateWindows(records []db.RawRecord) []*sessionWindow {
	byKey := make(map[windowKey]*sessionWindow)
	var order []windowKey

	for i := range records {
		r := &records[i]
		ts := r.Timestamp()

		key := windowKey{
			sourceType:  r.SourceType,
			sessionFile: r.SessionFile,
			windowStart: windowStart(ts),
		}
		if key.sourceType == "" {
			key.sourceType = "transcript"
		}
		if key.sessionFile == "" {
			key.sessionFile = "unknown"
		}
		if r.TeamPort != nil {
			key.teamPort = *r.TeamPort
		}

		w, ok := byKey[key]
		if !ok {
			w = &sessionWindow{
				SourceType:  key.sourceType,
				SourceName:  key.sessionFile,
				WindowStart: key.windowStart,
				MinTS:       ts,
				MaxTS:       ts,
			}
			byKey[key] = w
			order = append(order, key)
		}

		if r.TeamPort != nil && w.TeamPort == nil {
			port := *r.TeamPort
			w.TeamPort = &port
		}
		if w.ProjectSlug == "" && r.ProjectSlug != nil && *r.ProjectSlug != "" {
			w.ProjectSlug = *r.ProjectSlug
		}
		if w.ProjectFolder == "" && r.ProjectFolder != nil && *r.ProjectFolder != "" {
			w.ProjectFolder = *r.ProjectFolder
		}

		w.Content += r.Content + "\n"
		w.RecordIDs = append(w.RecordIDs, r.ID)
		if ts < w.MinTS {
			w.MinTS = ts
		}
		if ts > w.MaxTS {
			w.MaxTS = ts
		}
	}

	windows := make([]*sessionWindow, 0, len(order))
	for _, key := range order {
		windows = append(windows, byKey[key])
	}
	return windows
}
