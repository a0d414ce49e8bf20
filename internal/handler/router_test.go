package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citizenconnect/gujarat-guide/backend/internal/middleware"
	"github.com/citizenconnect/gujarat-guide/backend/internal/model/guide"
	"github.com/citizenconnect/gujarat-guide/backend/internal/service/ai"
	chatService "github.com/citizenconnect/gujarat-guide/backend/internal/service/chat"
	"github.com/citizenconnect/gujarat-guide/backend/internal/view"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	router, _ := newTestRouterWithService(t)
	return router
}

func newTestRouterWithService(t *testing.T) (http.Handler, *chatService.Service) {
	t.Helper()
	responder, err := ai.NewService(ai.StaticClient{Text: "Visit the e-Gram centre."}, "test", nil)
	require.NoError(t, err)
	catalog := guide.Seed()
	chatSvc := chatService.NewService(responder, catalog)
	return NewRouter(catalog, chatSvc, nil), chatSvc
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouterIssuesClientCookie(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/page", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.ClientCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)

	var page view.Page
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, cookie.Value, page.ClientID)
}

func TestRouterKeepsStatePerClient(t *testing.T) {
	router := newTestRouter(t)

	submit := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(`{"question":"Pension schemes?"}`))
	submit.Header.Set(middleware.ClientHeader, "alpha")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, submit)
	require.Equal(t, http.StatusOK, rec.Code)

	for client, want := range map[string]int{"alpha": 1, "beta": 0} {
		req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
		req.Header.Set(middleware.ClientHeader, client)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var sessions []json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sessions))
		assert.Len(t, sessions, want, client)
	}
}

func TestRouterPreflight(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/messages", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCookielessListingsKeepRegistryEmpty(t *testing.T) {
	router, chatSvc := newTestRouterWithService(t)

	for i := 0; i < 1000; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Zero(t, chatSvc.Len())
}
