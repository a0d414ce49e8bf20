package stream

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/citizenconnect/gujarat-guide/backend/internal/middleware"
	chatService "github.com/citizenconnect/gujarat-guide/backend/internal/service/chat"
	"github.com/citizenconnect/gujarat-guide/backend/pkg/utils"
)

const thinkingText = "Thinking..."

// Handler streams the lifecycle of one question via Server-Sent Events.
type Handler struct {
	chatSvc *chatService.Service
	logger  *zap.Logger
}

// New creates a stream handler.
func New(chatSvc *chatService.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{chatSvc: chatSvc, logger: logger.Named("stream")}
}

// Event is the payload of every frame.
type Event struct {
	SessionID string `json:"sessionId,omitempty"`
	Content   string `json:"content,omitempty"`
	Skipped   bool   `json:"skipped,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ServeHTTP handles GET /stream?message=...
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	message := r.URL.Query().Get("message")
	if message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
		return
	}

	if err := h.HandleStreamRequest(r.Context(), w, middleware.ClientID(r), message); err != nil {
		h.logger.Warn("stream request failed", zap.Error(err))
	}
}

// HandleStreamRequest emits status, message, error and end events for one
// submission.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, clientID, message string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)
	ws := h.chatSvc.Workspace(clientID)

	utils.SendSSEEvent(w, flusher, "status", Event{Content: thinkingText})

	outcome, err := ws.Submit(ctx, message)
	if err != nil {
		utils.SendSSEEvent(w, flusher, "error", Event{Error: err.Error()})
		utils.SendSSEEvent(w, flusher, "end", Event{})
		return err
	}

	if outcome.Skipped {
		utils.SendSSEEvent(w, flusher, "end", Event{SessionID: outcome.SessionID, Skipped: true})
		return nil
	}

	if outcome.Reply.Failed() {
		utils.SendSSEEvent(w, flusher, "error", Event{SessionID: outcome.SessionID, Error: outcome.Reply.Notice})
	}
	utils.SendSSEEvent(w, flusher, "message", Event{SessionID: outcome.SessionID, Content: outcome.Reply.Content})
	utils.SendSSEEvent(w, flusher, "end", Event{SessionID: outcome.SessionID})

	h.logger.Debug("stream completed", zap.String("workspace", ws.ID), zap.String("session", outcome.SessionID))
	return nil
}
