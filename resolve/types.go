// Package resolve turns the weak, partial signals attached to a session
// window (caller-supplied label, embedded working directory, free-text
// content) into a single project identity.
package resolve

// Reason records which signal produced an identity
type Reason string

const (
	ReasonTrustedLabel   Reason = "trusted-label"
	ReasonPathDerived    Reason = "path-derived"
	ReasonContentDerived Reason = "content-derived"
	ReasonUnresolved     Reason = "unresolved"
)

// UnassignedSlug is the sentinel slug returned when no signal resolves
const UnassignedSlug = "unassigned"

// Identity is the result of project resolution for one window
type Identity struct {
	Slug   string
	Port   *int
	Reason Reason
	Detail string // matched signal, for observability only
}

// WindowInfo carries the window fields the resolver looks at
type WindowInfo struct {
	SourceType    string
	SessionFile   string
	ProjectSlug   string // caller-supplied label, "" when absent
	ProjectFolder string
	TeamPort      *int
	Content       string
}
