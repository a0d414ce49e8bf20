package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/citizenconnect/gujarat-guide/backend/internal/model/chat"
	"github.com/citizenconnect/gujarat-guide/backend/internal/service/ai"
)

var (
	ErrEmptyQuestion     = errors.New("question is empty")
	ErrUnknownSuggestion = errors.New("unknown suggestion")
)

// Responder answers a question; failures come back as fallback text.
type Responder interface {
	Ask(ctx context.Context, question string, temperature float64) ai.Reply
}

// Suggestions resolves a quick-suggestion button to its question.
type Suggestions interface {
	Suggestion(index int) (string, bool)
}

// Outcome describes what one submission did.
type Outcome struct {
	SessionID string   `json:"sessionId,omitempty"`
	Skipped   bool     `json:"skipped"`
	Reply     ai.Reply `json:"reply"`
}

// Workspace is the chat state of one client plus the handlers for its UI
// events. User actions on a workspace run one at a time.
type Workspace struct {
	ID    string
	Store *Store
	Clear *ClearConfirmation

	mu   sync.Mutex
	deps *dependencies

	lastSeen time.Time // guarded by Service.mu
}

type dependencies struct {
	responder   Responder
	suggestions Suggestions
	delay       time.Duration
	logger      *zap.Logger
}

// EnsureActive creates the first session when the workspace is empty and
// nothing is selected.
func (w *Workspace) EnsureActive() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ensureActive()
}

func (w *Workspace) ensureActive() {
	if _, ok := w.Store.Selected(); ok || w.Store.Len() > 0 {
		return
	}
	session := w.Store.CreateSession()
	w.deps.logger.Debug("bootstrapped session", zap.String("workspace", w.ID), zap.String("session", session.ID))
}

// NewChat starts a fresh session and selects it.
func (w *Workspace) NewChat() chat.Session {
	w.mu.Lock()
	defer w.mu.Unlock()

	session := w.Store.CreateSession()
	w.Store.ResetLastQuestion()
	w.Clear.Settle()
	w.deps.logger.Info("session created", zap.String("workspace", w.ID), zap.String("session", session.ID))
	return session
}

// Select switches to an existing session.
func (w *Workspace) Select(sessionID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.Store.HasSession(sessionID) {
		return ErrSessionNotFound
	}
	w.Store.SelectSession(sessionID)
	w.Store.ResetLastQuestion()
	w.Clear.Settle()
	return nil
}

// Submit processes a typed question. Repeating the previous question is
// ignored so that re-sent input does not produce a second exchange.
func (w *Workspace) Submit(ctx context.Context, question string) (Outcome, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Outcome{}, ErrEmptyQuestion
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if question == w.Store.LastQuestion() {
		selected, _ := w.Store.Selected()
		w.deps.logger.Debug("duplicate submission skipped", zap.String("workspace", w.ID))
		return Outcome{SessionID: selected, Skipped: true}, nil
	}

	w.Store.MarkSubmitted(question)
	return w.exchange(ctx, question)
}

// SubmitSuggestion asks one of the quick-suggestion questions.
func (w *Workspace) SubmitSuggestion(ctx context.Context, index int) (Outcome, error) {
	question, ok := w.deps.suggestions.Suggestion(index)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %d", ErrUnknownSuggestion, index)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.exchange(ctx, question)
}

// RequestClear asks the user to confirm wiping every session.
func (w *Workspace) RequestClear() ConfirmState {
	return w.Clear.Request()
}

// ConfirmClear wipes every session after a pending request.
func (w *Workspace) ConfirmClear() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.Clear.Confirm(); err != nil {
		return err
	}
	w.deps.logger.Info("all chats cleared", zap.String("workspace", w.ID))
	return nil
}

// CancelClear abandons a pending clear request.
func (w *Workspace) CancelClear() error {
	return w.Clear.Cancel()
}

func (w *Workspace) exchange(ctx context.Context, question string) (Outcome, error) {
	w.Clear.Settle()

	sessionID, ok := w.Store.Selected()
	if !ok {
		sessionID = w.Store.CreateSession().ID
	}

	if _, err := w.Store.AppendMessage(sessionID, chat.RoleUser, question); err != nil {
		return Outcome{}, fmt.Errorf("failed to save user message: %w", err)
	}

	reply := w.deps.responder.Ask(ctx, question, ai.DefaultTemperature)
	w.pause(ctx)

	if _, err := w.Store.AppendMessage(sessionID, chat.RoleAssistant, reply.Content); err != nil {
		return Outcome{}, fmt.Errorf("failed to save assistant message: %w", err)
	}
	w.Store.RenameIfDefault(sessionID, question)

	return Outcome{SessionID: sessionID, Reply: reply}, nil
}

// pause holds the answer back for the configured display delay.
func (w *Workspace) pause(ctx context.Context) {
	if w.deps.delay <= 0 {
		return
	}
	timer := time.NewTimer(w.deps.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
