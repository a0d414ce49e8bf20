package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	ClientCookie = "cc_client"
	ClientHeader = "X-Client-ID"

	maxClientIDLength = 128
)

type clientKey struct{}

// Client resolves the caller's workspace id from the X-Client-ID header or the
// cc_client cookie, issuing a new cookie to first-time visitors.
func Client(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := requestClientID(r)
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     ClientCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		w.Header().Set(ClientHeader, id)

		ctx := context.WithValue(r.Context(), clientKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientID returns the workspace id of r. Without the Client middleware it
// falls back to the request header and cookie.
func ClientID(r *http.Request) string {
	if id, ok := r.Context().Value(clientKey{}).(string); ok {
		return id
	}
	return requestClientID(r)
}

func requestClientID(r *http.Request) string {
	id := r.Header.Get(ClientHeader)
	if id == "" {
		if cookie, err := r.Cookie(ClientCookie); err == nil {
			id = cookie.Value
		}
	}
	if len(id) > maxClientIDLength {
		return ""
	}
	return id
}
