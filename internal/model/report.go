package model

import "time"

// Report is the JSON document written after every run. Field names are
// stable so the next run can reload SeenIDs for diffing.
type Report struct {
	// Job is the name of the configured job that produced the report.
	Job string `json:"job"`

	// CheckedAt is when the mailbox was searched.
	CheckedAt time.Time `json:"checkedAt"`

	// UnreadCount is the size of the full UNSEEN search result.
	UnreadCount int `json:"unreadCount"`

	// NewUnreadCount is how many messages in the window were not seen before.
	NewUnreadCount int `json:"newUnreadCount"`

	// ImportantNewCount counts the new messages matching the job's rules,
	// before the report cap is applied.
	ImportantNewCount int `json:"importantNewCount"`

	// ImportantNew holds the matching new messages, newest first, capped.
	ImportantNew []Message `json:"importantNew"`

	// Latest holds the most recent unread messages regardless of rules.
	Latest []Message `json:"latest"`

	// SeenIDs is the bounded seen history in insertion order. Jobs that do
	// not diff against previous runs leave it empty.
	SeenIDs []string `json:"seenIds,omitempty"`
}

// Run is a summary row of a completed job run kept in the alert history.
type Run struct {
	ID                string    `json:"id"`
	Job               string    `json:"job"`
	CheckedAt         time.Time `json:"checked_at"`
	UnreadCount       int       `json:"unread_count"`
	NewUnreadCount    int       `json:"new_unread_count"`
	ImportantNewCount int       `json:"important_new_count"`
}

// Alert records one important message surfaced by a run.
type Alert struct {
	// ID is the unique identifier for this alert.
	ID string `json:"id"`

	// RunID links the alert to the run that produced it.
	RunID string `json:"run_id"`

	// Job is the job name, duplicated from the run for cheap filtering.
	Job string `json:"job"`

	// MessageID is the mailbox identifier of the message.
	MessageID string `json:"message_id"`

	From    string `json:"from"`
	Subject string `json:"subject"`
	Date    string `json:"date"`

	// CreatedAt is when the alert was recorded.
	CreatedAt time.Time `json:"created_at"`
}
