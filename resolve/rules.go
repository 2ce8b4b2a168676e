package resolve

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ContentPattern maps a substring to a project identity. Patterns are
// tested in order; the first match wins.
type ContentPattern struct {
	Match string `yaml:"match"`
	Slug  string `yaml:"slug"`
	Port  *int   `yaml:"port,omitempty"`
}

// Rules holds the hand-maintained resolution tables. The built-in defaults
// cover the current team layout; a YAML file can override any table.
type Rules struct {
	LowTrustSlugs   []string          `yaml:"low_trust_slugs"`
	Aliases         map[string]string `yaml:"aliases"`
	ContentPatterns []ContentPattern  `yaml:"content_patterns"`
}

func intPtr(v int) *int { return &v }

// DefaultRules returns the built-in resolution tables
func DefaultRules() Rules {
	return Rules{
		// Placeholder/ambiguous labels the ingestion side is known to send
		// when it doesn't actually know the project.
		LowTrustSlugs: []string{
			"unassigned",
			"unknown",
			"default",
			"terminal",
			"ai-team",
			"studio",
			"web",
		},

		// Partial/alias slugs to their canonical slug-port form.
		Aliases: map[string]string{
			"chad":      "ai-chad-5401",
			"ai-chad":   "ai-chad-5401",
			"jen":       "ai-jen-5402",
			"ai-jen":    "ai-jen-5402",
			"rhea":      "ai-rhea-5403",
			"ai-rhea":   "ai-rhea-5403",
			"dashboard": "ops-dashboard-4500",
		},

		// Last-resort substring classifiers, most specific first.
		ContentPatterns: []ContentPattern{
			{Match: "ops-dashboard", Slug: "ops-dashboard-4500", Port: intPtr(4500)},
			{Match: "ai-chad", Slug: "ai-chad-5401", Port: intPtr(5401)},
			{Match: "ai-jen", Slug: "ai-jen-5402", Port: intPtr(5402)},
			{Match: "ai-rhea", Slug: "ai-rhea-5403", Port: intPtr(5403)},
			{Match: "ttyd", Slug: "terminal-hub-7681", Port: intPtr(7681)},
			{Match: "sessionhub", Slug: "sessionhub"},
			{Match: "lifelog", Slug: "lifelog"},
		},
	}
}

// LoadRules reads a YAML rules file and merges it over the defaults.
// Only tables present in the file are overridden.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()

	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("failed to read rules file: %w", err)
	}

	var override Rules
	if err := yaml.Unmarshal(data, &override); err != nil {
		return rules, fmt.Errorf("failed to parse rules file: %w", err)
	}

	if len(override.LowTrustSlugs) > 0 {
		rules.LowTrustSlugs = override.LowTrustSlugs
	}
	if len(override.Aliases) > 0 {
		rules.Aliases = override.Aliases
	}
	if len(override.ContentPatterns) > 0 {
		rules.ContentPatterns = override.ContentPatterns
	}

	return rules, nil
}
