package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/citizenconnect/gujarat-guide/backend/internal/middleware"
	model "github.com/citizenconnect/gujarat-guide/backend/internal/model/chat"
	"github.com/citizenconnect/gujarat-guide/backend/internal/model/guide"
	chatService "github.com/citizenconnect/gujarat-guide/backend/internal/service/chat"
	"github.com/citizenconnect/gujarat-guide/backend/internal/view"
	"github.com/citizenconnect/gujarat-guide/backend/pkg/utils"
)

// Handler serves the chat UI events over HTTP.
type Handler struct {
	chatSvc *chatService.Service
	catalog guide.Catalog
	logger  *zap.Logger
}

// New creates the chat handler.
func New(chatSvc *chatService.Service, catalog guide.Catalog, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		chatSvc: chatSvc,
		catalog: catalog,
		logger:  logger.Named("chat-handler"),
	}
}

// RegisterRoutes mounts the chat routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/page", h.handlePage)

	r.Get("/sessions", h.handleListSessions)
	r.Post("/sessions", h.handleCreateSession)
	r.Put("/sessions/{sessionID}/select", h.handleSelectSession)
	r.Get("/sessions/{sessionID}/messages", h.handleTranscript)

	r.Post("/messages", h.handleSubmit)
	r.Post("/suggestions/{index}", h.handleSuggestion)

	r.Post("/clear", h.handleRequestClear)
	r.Post("/clear/confirm", h.handleConfirmClear)
	r.Post("/clear/cancel", h.handleCancelClear)
}

// SubmitResponse is returned for question submissions.
type SubmitResponse struct {
	Outcome chatService.Outcome `json:"outcome"`
	Page    view.Page           `json:"page"`
}

func (h *Handler) workspace(r *http.Request) *chatService.Workspace {
	return h.chatSvc.Workspace(middleware.ClientID(r))
}

// respondPage bootstraps an empty workspace and renders it.
func (h *Handler) respondPage(w http.ResponseWriter, status int, ws *chatService.Workspace, notice *view.Notice) {
	ws.EnsureActive()
	utils.RespondJSON(w, status, view.Render(ws, h.catalog, notice))
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	h.respondPage(w, http.StatusOK, h.workspace(r), nil)
}

// Read-only routes never create a workspace.
func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.chatSvc.Lookup(middleware.ClientID(r))
	if !ok {
		utils.RespondJSON(w, http.StatusOK, []model.Summary{})
		return
	}
	utils.RespondJSON(w, http.StatusOK, ws.Store.ListSessionsOrdered())
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	ws.NewChat()
	h.respondPage(w, http.StatusCreated, ws, nil)
}

func (h *Handler) handleSelectSession(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	if err := ws.Select(chi.URLParam(r, "sessionID")); err != nil {
		h.fail(w, err)
		return
	}
	h.respondPage(w, http.StatusOK, ws, nil)
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.chatSvc.Lookup(middleware.ClientID(r))
	if !ok {
		h.fail(w, chatService.ErrSessionNotFound)
		return
	}
	messages, err := ws.Store.LoadTranscript(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.fail(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, messages)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ws := h.workspace(r)
	outcome, err := ws.Submit(r.Context(), payload.Question)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respondSubmit(w, ws, outcome)
}

func (h *Handler) handleSuggestion(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "suggestion index must be a number")
		return
	}

	ws := h.workspace(r)
	outcome, err := ws.SubmitSuggestion(r.Context(), index)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respondSubmit(w, ws, outcome)
}

func (h *Handler) respondSubmit(w http.ResponseWriter, ws *chatService.Workspace, outcome chatService.Outcome) {
	ws.EnsureActive()
	utils.RespondJSON(w, http.StatusOK, SubmitResponse{
		Outcome: outcome,
		Page:    view.Render(ws, h.catalog, view.ErrorNotice(outcome.Reply.Notice)),
	})
}

func (h *Handler) handleRequestClear(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	ws.RequestClear()
	h.respondPage(w, http.StatusOK, ws, nil)
}

func (h *Handler) handleConfirmClear(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	if err := ws.ConfirmClear(); err != nil {
		h.fail(w, err)
		return
	}
	h.respondPage(w, http.StatusOK, ws, view.SuccessNotice(view.ClearedText))
}

func (h *Handler) handleCancelClear(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	if err := ws.CancelClear(); err != nil {
		h.fail(w, err)
		return
	}
	h.respondPage(w, http.StatusOK, ws, nil)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("chat request failed", zap.Error(err))
	}
	utils.RespondError(w, status, err.Error())
}

// StatusFor maps chat service errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, chatService.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, chatService.ErrEmptyQuestion),
		errors.Is(err, chatService.ErrUnknownSuggestion),
		errors.Is(err, chatService.ErrInvalidRole):
		return http.StatusBadRequest
	case errors.Is(err, chatService.ErrNotConfirming):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
