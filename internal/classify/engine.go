// Package classify decides which unread messages are new since the last
// run and which of those are important.
package classify

import "github.com/nhle/mailwatch/internal/model"

// Config parameterizes one classification job.
type Config struct {
	// UnreadWindow is how many of the most recent unread ids are examined.
	// Zero or less examines all of them.
	UnreadWindow int

	// SeenBound caps the seen history. Zero or less is unbounded.
	SeenBound int

	// DiffAgainstSeen enables novelty detection. When false every message
	// counts as new and the seen history is left untouched.
	DiffAgainstSeen bool

	Rules Rules

	// ReportCap caps Result.Important. Zero or less keeps everything.
	ReportCap int

	// LatestCap caps Result.Latest. Zero or less disables the list.
	LatestCap int
}

// ConfigFromJob converts a configured job into an engine configuration.
func ConfigFromJob(job model.JobConfig) Config {
	return Config{
		UnreadWindow:    job.UnreadWindow,
		SeenBound:       job.SeenBound,
		DiffAgainstSeen: job.DiffAgainstSeen,
		Rules:           NewRules(job.Rules),
		ReportCap:       job.ReportCap,
		LatestCap:       job.LatestCap,
	}
}

// Result is the outcome of one classification pass.
type Result struct {
	// New holds the messages not present in the prior seen set, in input
	// order.
	New []model.Message

	// Important holds the new messages matching the rules, capped.
	Important []model.Message

	// ImportantCount is the number of important messages before capping.
	ImportantCount int

	// Latest is the input truncated to the latest cap, unfiltered.
	Latest []model.Message

	// Seen is the updated history. It is nil when diffing is disabled.
	Seen *SeenSet
}

// Window returns the trailing n ids of an ascending search result,
// newest first. Older ids beyond the window are left for later runs.
func Window(ids []string, n int) []string {
	if n > 0 && len(ids) > n {
		ids = ids[len(ids)-n:]
	}
	out := make([]string, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		out = append(out, ids[i])
	}
	return out
}

// Classify compares the current unread messages, newest first, with the
// seen history of the previous run. prior is not modified; a nil prior is
// treated as empty.
func Classify(current []model.Message, prior *SeenSet, cfg Config) Result {
	messages := dedupe(current)

	newMessages := messages
	if cfg.DiffAgainstSeen {
		newMessages = make([]model.Message, 0, len(messages))
		for _, m := range messages {
			if !prior.Contains(m.ID) {
				newMessages = append(newMessages, m)
			}
		}
	}

	important := make([]model.Message, 0, len(newMessages))
	for _, m := range newMessages {
		if cfg.Rules.IsImportant(m) {
			important = append(important, m)
		}
	}

	result := Result{
		New:            newMessages,
		Important:      truncate(important, cfg.ReportCap),
		ImportantCount: len(important),
		Latest:         []model.Message{},
	}
	if cfg.LatestCap > 0 {
		result.Latest = truncate(messages, cfg.LatestCap)
	}

	if cfg.DiffAgainstSeen {
		seen := prior.Clone()
		// Input is newest first; insert oldest first so the newest ids are
		// the last to be evicted.
		for i := len(messages) - 1; i >= 0; i-- {
			seen.Add(messages[i].ID)
		}
		seen.Trim(cfg.SeenBound)
		result.Seen = seen
	}

	return result
}

// dedupe drops repeated ids, keeping the first occurrence.
func dedupe(messages []model.Message) []model.Message {
	seen := make(map[string]struct{}, len(messages))
	out := make([]model.Message, 0, len(messages))
	for _, m := range messages {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out
}

func truncate(messages []model.Message, n int) []model.Message {
	if n > 0 && len(messages) > n {
		return messages[:n]
	}
	return messages
}
