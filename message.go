package krypt

import "time"

// LockedText is shown in place of a message whose stored text could not be
// opened.
const LockedText = "Encrypted (wrong key?)"

// Message is a read-only copy of an ephemeral room message.
// The room owns the live message; mutating a Message has no effect on it.
type Message struct {
	ID        string
	SenderID  string
	CreatedAt time.Time
	// Text is nil when the stored text could not be opened.
	Text *string
	// Remaining is the number of whole seconds until the message is removed.
	Remaining int
}

// DisplayText returns the message text, or LockedText when it is unavailable.
func (m Message) DisplayText() string {
	if m.Text == nil {
		return LockedText
	}
	return *m.Text
}

// ExpiresAt returns when the message will be removed, given the room TTL.
func (m Message) ExpiresAt(ttl time.Duration) time.Time {
	return m.CreatedAt.Add(ttl)
}

// storedMessage is the room's internal record. body holds plaintext, or a
// sealed blob when the room has a Box.
type storedMessage struct {
	id        string
	senderID  string
	createdAt time.Time
	body      string
	remaining int
}
