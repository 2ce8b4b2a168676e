package resolve

import (
	"regexp"
	"strconv"
	"strings"
)

// Team services run on ports in this range; anything else in a path is just
// a number that happens to follow a hyphen.
const (
	minTeamPort = 4000
	maxTeamPort = 9999
)

// slugPortPattern matches an alphanumeric-hyphen token ending in a 4-5 digit
// run preceded by a hyphen, e.g. "ai-chad-5401".
var slugPortPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*-(\d{4,5})$`)

// RouteFromPath converts a working-directory path into a candidate project
// identity. Attempts, in order: a slug-with-port segment, a studio/<name>
// segment, a projects/<name> segment.
func RouteFromPath(path string) (Identity, bool) {
	segments := strings.Split(normalizePath(path), "/")

	for _, seg := range segments {
		m := slugPortPattern.FindStringSubmatch(seg)
		if m == nil {
			continue
		}
		port, err := strconv.Atoi(m[1])
		if err != nil || port < minTeamPort || port > maxTeamPort {
			continue
		}
		p := port
		return Identity{
			Slug:   seg,
			Port:   &p,
			Reason: ReasonPathDerived,
			Detail: "path:" + seg,
		}, true
	}

	if id, ok := namedSegment(segments, "studio"); ok {
		return id, true
	}
	if id, ok := namedSegment(segments, "projects"); ok {
		return id, true
	}

	return Identity{}, false
}

// namedSegment looks for marker/<name> in the path segments
func namedSegment(segments []string, marker string) (Identity, bool) {
	for i, seg := range segments {
		if seg == marker && i+1 < len(segments) && segments[i+1] != "" {
			return Identity{
				Slug:   segments[i+1],
				Reason: ReasonPathDerived,
				Detail: "path:" + marker + "/" + segments[i+1],
			}, true
		}
	}
	return Identity{}, false
}

// IsHomePath reports whether a path points into a personal/home directory.
// Home paths carry no project signal, so the resolver skips path routing
// for them entirely.
func IsHomePath(path string) bool {
	norm := normalizePath(path)
	return strings.Contains(norm, "/home/") ||
		strings.Contains(norm, "/root/") ||
		strings.HasSuffix(norm, "/root") ||
		strings.Contains(norm, "/users/")
}

func normalizePath(path string) string {
	return strings.ToLower(strings.ReplaceAll(path, `\`, "/"))
}
