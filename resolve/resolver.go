package resolve

import (
	"github.com/xiaoyuanzhu-com/ai-session-hub/log"
)

// Resolver resolves project identities using a fixed set of rule tables
type Resolver struct {
	rules    Rules
	lowTrust map[string]struct{}
}

// New creates a resolver with the given rule tables
func New(rules Rules) *Resolver {
	lowTrust := make(map[string]struct{}, len(rules.LowTrustSlugs))
	for _, slug := range rules.LowTrustSlugs {
		lowTrust[slug] = struct{}{}
	}
	return &Resolver{rules: rules, lowTrust: lowTrust}
}

// NewDefault creates a resolver with the built-in rule tables
func NewDefault() *Resolver {
	return New(DefaultRules())
}

// IsLowTrust reports whether a caller-supplied slug is a known
// placeholder/ambiguous value that must never be trusted outright
func (r *Resolver) IsLowTrust(slug string) bool {
	_, ok := r.lowTrust[slug]
	return ok
}

// Resolve produces exactly one project identity for a window, via a strict
// priority cascade: a trusted caller-supplied label, then the working
// directory, then content sniffing, then the "unassigned" sentinel.
// Resolution never fails; unresolved windows still get a stable slug.
func (r *Resolver) Resolve(win WindowInfo, cwd string) Identity {
	// 1. Caller-supplied label, unless it's a known placeholder.
	if win.ProjectSlug != "" {
		if r.IsLowTrust(win.ProjectSlug) {
			log.Debug().
				Str("slug", win.ProjectSlug).
				Str("sessionFile", win.SessionFile).
				Msg("ignoring low-trust project label")
		} else {
			return Identity{
				Slug:   r.NormalizeSlug(win.ProjectSlug),
				Port:   win.TeamPort,
				Reason: ReasonTrustedLabel,
				Detail: "label:" + win.ProjectSlug,
			}
		}
	}

	// 2. Working directory, unless it's someone's home directory.
	if cwd != "" && !IsHomePath(cwd) {
		if id, ok := RouteFromPath(cwd); ok {
			return id
		}
	}

	// 3. Substring sniffing over file name, folder, and content head.
	if id, ok := r.SniffContent(win.SessionFile, win.ProjectFolder, win.Content); ok {
		return id
	}

	// 4. Sentinel.
	return Identity{Slug: UnassignedSlug, Reason: ReasonUnresolved}
}
