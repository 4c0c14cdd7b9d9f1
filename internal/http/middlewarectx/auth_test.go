package middlewarectx_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/streamflix/internal/http/middlewarectx"
	"github.com/magabrotheeeer/streamflix/internal/lib/jwt"
)

type RevocationMock struct {
	mock.Mock
}

func (m *RevocationMock) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	maker := jwt.NewJWTMaker("secret", time.Hour)
	token, claims, err := maker.GenerateToken(42, "user@example.com")
	assert.NoError(t, err)
	foreign, _, err := jwt.NewJWTMaker("other-secret", time.Hour).GenerateToken(42, "user@example.com")
	assert.NoError(t, err)

	tests := []struct {
		name           string
		authHeader     string
		setupMock      func(*RevocationMock)
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			setupMock:      func(*RevocationMock) {},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			setupMock:      func(*RevocationMock) {},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "token signed with another key",
			authHeader:     "Bearer " + foreign,
			setupMock:      func(*RevocationMock) {},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:       "revoked token",
			authHeader: "Bearer " + token,
			setupMock: func(m *RevocationMock) {
				m.On("IsTokenRevoked", mock.Anything, claims.TokenID()).Return(true, nil).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:       "revocation store failure",
			authHeader: "Bearer " + token,
			setupMock: func(m *RevocationMock) {
				m.On("IsTokenRevoked", mock.Anything, claims.TokenID()).Return(false, errors.New("redis down")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
		},
		{
			name:       "valid token",
			authHeader: "Bearer " + token,
			setupMock: func(m *RevocationMock) {
				m.On("IsTokenRevoked", mock.Anything, claims.TokenID()).Return(false, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			revoked := new(RevocationMock)
			tt.setupMock(revoked)

			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				id, ok := middlewarectx.AccountIDFrom(r.Context())
				assert.True(t, ok)
				assert.Equal(t, int64(42), id)
				assert.Equal(t, "user@example.com", r.Context().Value(middlewarectx.Email))
				c, ok := middlewarectx.ClaimsFrom(r.Context())
				assert.True(t, ok)
				assert.Equal(t, claims.TokenID(), c.TokenID())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			middlewarectx.JWTMiddleware(maker, revoked, newNoopLogger())(next).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatusCode, w.Code)
			assert.Equal(t, tt.wantCalled, called)
			revoked.AssertExpectations(t)
		})
	}
}

func TestAccountIDFrom_Missing(t *testing.T) {
	_, ok := middlewarectx.AccountIDFrom(context.Background())
	assert.False(t, ok)
	_, ok = middlewarectx.ClaimsFrom(context.Background())
	assert.False(t, ok)
}
