package chat

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/citizenconnect/gujarat-guide/backend/internal/model/chat"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidRole     = errors.New("invalid message role")
)

const placeholderTitleFormat = "New Chat %d"

// StoreOption customises a Store.
type StoreOption func(*Store)

// WithClock overrides the time source used to stamp messages.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store keeps the chat sessions of one client in memory.
type Store struct {
	mu           sync.RWMutex
	now          func() time.Time
	sessions     map[string]*chat.Session
	order        []string
	selected     string
	lastQuestion string
}

// NewStore returns an empty store with nothing selected.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		now:      func() time.Time { return time.Now().UTC() },
		sessions: make(map[string]*chat.Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession provisions an empty session with a placeholder title and
// selects it.
func (s *Store) CreateSession() chat.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	placeholder := fmt.Sprintf(placeholderTitleFormat, len(s.sessions)+1)
	session := &chat.Session{
		ID:          uuid.NewString(),
		Title:       placeholder,
		Placeholder: placeholder,
		Messages:    make([]chat.Message, 0, 16),
		CreatedAt:   s.now(),
	}

	s.sessions[session.ID] = session
	s.order = append(s.order, session.ID)
	s.selected = session.ID
	return cloneSession(session)
}

// SelectSession makes id the active session. Unknown ids are ignored.
func (s *Store) SelectSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; ok {
		s.selected = id
	}
}

// HasSession reports whether id names a live session.
func (s *Store) HasSession(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[id]
	return ok
}

// Selected returns the active session id, if any.
func (s *Store) Selected() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected, s.selected != ""
}

// AppendMessage stamps and appends a message to the session history.
// Timestamps never move backwards within a session.
func (s *Store) AppendMessage(sessionID string, role chat.Role, content string) (chat.Message, error) {
	if !role.Valid() {
		return chat.Message{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Message{}, ErrSessionNotFound
	}

	ts := s.now()
	if n := len(session.Messages); n > 0 && ts.Before(session.Messages[n-1].Timestamp) {
		ts = session.Messages[n-1].Timestamp
	}

	message := chat.Message{Role: role, Content: content, Timestamp: ts}
	session.Messages = append(session.Messages, message)
	return message, nil
}

// RenameIfDefault replaces a placeholder title with the truncated candidate.
// It reports whether the title changed.
func (s *Store) RenameIfDefault(sessionID, candidate string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok || !session.HasDefaultTitle() {
		return false
	}

	title := TruncateTitle(candidate)
	if title == session.Placeholder {
		return false
	}
	session.Title = title
	return true
}

// ClearAll drops every session, the selection and the duplicate marker.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make(map[string]*chat.Session)
	s.order = nil
	s.selected = ""
	s.lastQuestion = ""
}

// ListSessionsOrdered returns the sidebar entries, most recently started
// conversation first. Sessions without messages sort last.
func (s *Store) ListSessionsOrdered() []chat.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ordered := make([]*chat.Session, 0, len(s.order))
	for _, id := range s.order {
		ordered = append(ordered, s.sessions[id])
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartedAt().After(ordered[j].StartedAt())
	})

	summaries := make([]chat.Summary, 0, len(ordered))
	for _, session := range ordered {
		summaries = append(summaries, chat.Summary{
			ID:           session.ID,
			Title:        session.Title,
			Active:       session.ID == s.selected,
			MessageCount: len(session.Messages),
		})
	}
	return summaries
}

// GetSession retrieves a copy of a session.
func (s *Store) GetSession(id string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return cloneSession(session), nil
}

// LoadTranscript returns stored messages for the provided session.
func (s *Store) LoadTranscript(id string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]chat.Message, len(session.Messages))
	copy(copied, session.Messages)
	return copied, nil
}

// Len returns the number of sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// LastQuestion returns the most recent typed question.
func (s *Store) LastQuestion() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastQuestion
}

// MarkSubmitted records question as the most recent typed question.
func (s *Store) MarkSubmitted(question string) {
	s.mu.Lock()
	s.lastQuestion = question
	s.mu.Unlock()
}

// ResetLastQuestion forgets the duplicate marker.
func (s *Store) ResetLastQuestion() {
	s.MarkSubmitted("")
}

func cloneSession(session *chat.Session) chat.Session {
	copied := *session
	copied.Messages = make([]chat.Message, len(session.Messages))
	copy(copied.Messages, session.Messages)
	return copied
}
