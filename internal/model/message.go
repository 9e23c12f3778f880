package model

// Message is a normalized view of one unread mailbox message. It is built
// from the raw header block returned by the mailbox and never mutated.
type Message struct {
	// ID is the server-assigned identifier (an IMAP UID rendered as text).
	ID string `json:"id"`

	// From is the decoded From header, e.g. `Jan Kowalski <jan@example.com>`.
	From string `json:"from"`

	// Subject is the decoded Subject header.
	Subject string `json:"subject"`

	// Date is the Date header as sent by the server, whitespace-normalized.
	Date string `json:"date"`
}
