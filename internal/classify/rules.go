package classify

import (
	"strings"

	"github.com/nhle/mailwatch/internal/model"
)

// Rules decides importance from the sender and subject alone. Patterns are
// plain substrings compared case-insensitively; any hit in either list
// makes a message important.
type Rules struct {
	senders  []string
	subjects []string
}

// NewRules lower-cases and compacts the configured patterns. Empty
// patterns are dropped since they would match everything.
func NewRules(cfg model.RulesConfig) Rules {
	return Rules{
		senders:  lowerAll(cfg.Senders),
		subjects: lowerAll(cfg.Subjects),
	}
}

// Match reports whether from or subject contains any configured pattern.
func (r Rules) Match(from, subject string) bool {
	return containsAny(strings.ToLower(from), r.senders) ||
		containsAny(strings.ToLower(subject), r.subjects)
}

// IsImportant applies Match to a message.
func (r Rules) IsImportant(m model.Message) bool {
	return r.Match(m.From, m.Subject)
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func lowerAll(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
