package middlewarectx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/streamflix/internal/http/middlewarectx"
)

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		admins     []string
		email      string
		wantStatus int
		wantCalled bool
	}{
		{name: "admin", admins: []string{"ops@streamflix.io"}, email: "ops@streamflix.io", wantStatus: http.StatusOK, wantCalled: true},
		{name: "case insensitive", admins: []string{" Ops@StreamFlix.io "}, email: "ops@streamflix.IO", wantStatus: http.StatusOK, wantCalled: true},
		{name: "regular account", admins: []string{"ops@streamflix.io"}, email: "user@example.com", wantStatus: http.StatusForbidden},
		{name: "no admins configured", admins: nil, email: "ops@streamflix.io", wantStatus: http.StatusForbidden},
		{name: "no email in context", admins: []string{"ops@streamflix.io"}, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/content", nil)
			if tt.email != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.Email, tt.email))
			}
			w := httptest.NewRecorder()
			middlewarectx.RequireAdmin(tt.admins, newNoopLogger())(next).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCalled, called)
		})
	}
}
