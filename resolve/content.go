package resolve

import "strings"

// contentSniffLimit caps how much window content feeds the substring
// classifier; a session's identity markers show up early.
const contentSniffLimit = 5000

// SniffContent is the last-resort classifier: it tests the ordered content
// patterns against a lowercased haystack built from the session file name,
// the project folder, and the head of the window content.
func (r *Resolver) SniffContent(sessionFile, projectFolder, content string) (Identity, bool) {
	if len(content) > contentSniffLimit {
		content = content[:contentSniffLimit]
	}
	haystack := strings.ToLower(sessionFile + " " + projectFolder + " " + content)

	for _, p := range r.rules.ContentPatterns {
		if !strings.Contains(haystack, strings.ToLower(p.Match)) {
			continue
		}

		id := Identity{
			Slug:   p.Slug,
			Reason: ReasonContentDerived,
			Detail: "content:" + p.Match,
		}
		if p.Port != nil {
			port := *p.Port
			id.Port = &port
		}
		return id, true
	}

	return Identity{}, false
}
