package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citizenconnect/gujarat-guide/backend/internal/middleware"
	model "github.com/citizenconnect/gujarat-guide/backend/internal/model/chat"
	"github.com/citizenconnect/gujarat-guide/backend/internal/model/guide"
	"github.com/citizenconnect/gujarat-guide/backend/internal/service/ai"
	chatservice "github.com/citizenconnect/gujarat-guide/backend/internal/service/chat"
	"github.com/citizenconnect/gujarat-guide/backend/internal/view"
)

const clientID = "test-client"

func setupRouter(t *testing.T, client ai.ModelClient) (*chi.Mux, *chatservice.Service) {
	t.Helper()
	responder, err := ai.NewService(client, "test", nil)
	require.NoError(t, err)

	catalog := guide.Seed()
	chatSvc := chatservice.NewService(responder, catalog)
	handler := New(chatSvc, catalog, nil)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, chatSvc
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.ClientHeader, clientID)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}

func TestPageBootstrapsSession(t *testing.T) {
	r, chatSvc := setupRouter(t, ai.StaticClient{Text: "ok"})

	resp := do(t, r, http.MethodGet, "/page", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	page := decode[view.Page](t, resp)
	require.NotNil(t, page.Active)
	assert.Equal(t, "New Chat 1", page.Active.Title)
	assert.Len(t, page.Suggestions, 4)

	ws, ok := chatSvc.Lookup(clientID)
	require.True(t, ok)
	assert.Equal(t, 1, ws.Store.Len())
}

func TestSubmitQuestion(t *testing.T) {
	r, _ := setupRouter(t, ai.StaticClient{Text: "Visit the e-Gram centre."})
	do(t, r, http.MethodGet, "/page", nil)

	resp := do(t, r, http.MethodPost, "/messages", map[string]string{"question": "How can I apply for a ration card?"})
	require.Equal(t, http.StatusOK, resp.Code)

	body := decode[SubmitResponse](t, resp)
	assert.False(t, body.Outcome.Skipped)
	assert.Equal(t, "Visit the e-Gram centre.", body.Outcome.Reply.Content)
	require.NotNil(t, body.Page.Active)
	assert.Equal(t, "How can I apply for a ration c...", body.Page.Active.Title)
	assert.Len(t, body.Page.Active.Messages, 2)
	assert.Nil(t, body.Page.Notice)
}

func TestSubmitDuplicateIsSkipped(t *testing.T) {
	r, _ := setupRouter(t, ai.StaticClient{Text: "answer"})
	question := map[string]string{"question": "Domicile certificate?"}

	do(t, r, http.MethodPost, "/messages", question)
	resp := do(t, r, http.MethodPost, "/messages", question)
	require.Equal(t, http.StatusOK, resp.Code)

	body := decode[SubmitResponse](t, resp)
	assert.True(t, body.Outcome.Skipped)
	require.NotNil(t, body.Page.Active)
	assert.Len(t, body.Page.Active.Messages, 2)
}

func TestSubmitModelFailureShowsNotice(t *testing.T) {
	r, _ := setupRouter(t, ai.StaticClient{Err: context.DeadlineExceeded})

	resp := do(t, r, http.MethodPost, "/messages", map[string]string{"question": "Anything?"})
	require.Equal(t, http.StatusOK, resp.Code)

	body := decode[SubmitResponse](t, resp)
	require.NotNil(t, body.Page.Notice)
	assert.Equal(t, "error", body.Page.Notice.Level)
	require.NotNil(t, body.Page.Active)
	assert.Equal(t, ai.FallbackAnswer, body.Page.Active.Messages[1].Content)
}

func TestSubmitValidation(t *testing.T) {
	r, _ := setupRouter(t, ai.StaticClient{Text: "ok"})

	resp := do(t, r, http.MethodPost, "/messages", map[string]string{"question": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewReader([]byte("{")))
	bad := httptest.NewRecorder()
	r.ServeHTTP(bad, req)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestSuggestionRoutes(t *testing.T) {
	r, _ := setupRouter(t, ai.StaticClient{Text: "ok"})

	resp := do(t, r, http.MethodPost, "/suggestions/3", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	body := decode[SubmitResponse](t, resp)
	require.NotNil(t, body.Page.Active)
	assert.Equal(t, "Where can I find information o...", body.Page.Active.Title)

	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/suggestions/7", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/suggestions/first", nil).Code)
}

func TestCreateAndSelectSessions(t *testing.T) {
	r, _ := setupRouter(t, ai.StaticClient{Text: "ok"})
	first := decode[view.Page](t, do(t, r, http.MethodGet, "/page", nil)).Active.ID

	resp := do(t, r, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, resp.Code)
	page := decode[view.Page](t, resp)
	assert.Equal(t, "New Chat 2", page.Active.Title)
	assert.Len(t, page.Sessions, 2)

	resp = do(t, r, http.MethodPut, "/sessions/"+first+"/select", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, first, decode[view.Page](t, resp).Active.ID)

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodPut, "/sessions/missing/select", nil).Code)

	list := decode[[]model.Summary](t, do(t, r, http.MethodGet, "/sessions", nil))
	assert.Len(t, list, 2)
}

func TestTranscript(t *testing.T) {
	r, _ := setupRouter(t, ai.StaticClient{Text: "ok"})
	body := decode[SubmitResponse](t, do(t, r, http.MethodPost, "/messages", map[string]string{"question": "Q"}))

	resp := do(t, r, http.MethodGet, "/sessions/"+body.Outcome.SessionID+"/messages", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	messages := decode[[]model.Message](t, resp)
	require.Len(t, messages, 2)
	assert.Equal(t, model.RoleUser, messages[0].Role)

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/sessions/missing/messages", nil).Code)
}

func TestClearAllFlow(t *testing.T) {
	r, chatSvc := setupRouter(t, ai.StaticClient{Text: "ok"})
	do(t, r, http.MethodPost, "/messages", map[string]string{"question": "Q"})

	assert.Equal(t, http.StatusConflict, do(t, r, http.MethodPost, "/clear/confirm", nil).Code)
	assert.Equal(t, http.StatusConflict, do(t, r, http.MethodPost, "/clear/cancel", nil).Code)

	page := decode[view.Page](t, do(t, r, http.MethodPost, "/clear", nil))
	assert.Equal(t, chatservice.ConfirmPending, page.Clear.State)
	assert.Equal(t, view.ConfirmClearText, page.Clear.Message)

	page = decode[view.Page](t, do(t, r, http.MethodPost, "/clear/cancel", nil))
	assert.Equal(t, chatservice.ConfirmCancelled, page.Clear.State)
	assert.Len(t, page.Sessions, 1)

	do(t, r, http.MethodPost, "/clear", nil)
	resp := do(t, r, http.MethodPost, "/clear/confirm", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	page = decode[view.Page](t, resp)
	assert.Equal(t, chatservice.ConfirmExecuted, page.Clear.State)
	require.Len(t, page.Sessions, 1, "a fresh session is bootstrapped after clearing")
	assert.Equal(t, "New Chat 1", page.Sessions[0].Title)
	require.NotNil(t, page.Notice)
	assert.Equal(t, "success", page.Notice.Level)
	assert.Equal(t, view.ClearedText, page.Notice.Message)
	assert.Empty(t, page.Clear.Message)

	ws, _ := chatSvc.Lookup(clientID)
	assert.Empty(t, ws.Store.LastQuestion())
}

func TestClearedMessageShownOnce(t *testing.T) {
	r, _ := setupRouter(t, ai.StaticClient{Text: "ok"})
	do(t, r, http.MethodPost, "/clear", nil)
	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/clear/confirm", nil).Code)

	page := decode[view.Page](t, do(t, r, http.MethodGet, "/page", nil))
	assert.Nil(t, page.Notice)

	submitted := decode[SubmitResponse](t, do(t, r, http.MethodPost, "/messages", map[string]string{"question": "q1"}))
	assert.Equal(t, chatservice.ConfirmIdle, submitted.Page.Clear.State)
	assert.Nil(t, submitted.Page.Notice)
	assert.Empty(t, submitted.Page.Clear.Message)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusFor(chatservice.ErrSessionNotFound))
	assert.Equal(t, http.StatusBadRequest, StatusFor(chatservice.ErrUnknownSuggestion))
	assert.Equal(t, http.StatusConflict, StatusFor(chatservice.ErrNotConfirming))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("boom")))
}

func TestReadOnlyRoutesDoNotCreateWorkspaces(t *testing.T) {
	r, chatSvc := setupRouter(t, ai.StaticClient{Text: "ok"})

	for i := 0; i < 100; i++ {
		req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
		req.Header.Set(middleware.ClientHeader, fmt.Sprintf("visitor-%d", i))
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, "[]", resp.Body.String())
	}

	resp := do(t, r, http.MethodGet, "/sessions/any/messages", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Zero(t, chatSvc.Len())
}
