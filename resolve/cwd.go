package resolve

import (
	"regexp"
	"strings"
)

// cwdPattern matches a working-directory field embedded in free text,
// tolerating whitespace around the colon.
var cwdPattern = regexp.MustCompile(`"cwd"\s*:\s*"((?:[^"\\]|\\.)*)"`)

// ExtractCwd finds all "cwd": "<path>" occurrences in the content and
// returns the last one, with backslashes normalized to forward slashes.
// Sessions emit a new cwd field every time the working directory changes,
// so the last occurrence reflects current context.
func ExtractCwd(content string) (string, bool) {
	matches := cwdPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return "", false
	}

	path := matches[len(matches)-1][1]
	path = strings.ReplaceAll(path, `\\`, "/")
	path = strings.ReplaceAll(path, `\`, "/")
	return path, true
}
