package chat

import "time"

// Session captures one independent conversation thread.
type Session struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Placeholder string    `json:"-"`
	Messages    []Message `json:"messages"`
	CreatedAt   time.Time `json:"createdAt"`
}

// HasDefaultTitle reports whether the title was never replaced by a question.
func (s Session) HasDefaultTitle() bool {
	return s.Title == s.Placeholder
}

// StartedAt returns the timestamp of the first message, or the zero time for
// a session nobody has written to yet.
func (s Session) StartedAt() time.Time {
	if len(s.Messages) == 0 {
		return time.Time{}
	}
	return s.Messages[0].Timestamp
}

// Summary is the sidebar entry for a session.
type Summary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Active       bool   `json:"active"`
	MessageCount int    `json:"messageCount"`
}
