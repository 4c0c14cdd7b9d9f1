package verify

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/streamflix/internal/models"
	authservice "github.com/magabrotheeeer/streamflix/internal/services/auth"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Verify(ctx context.Context, req models.VerifyRequest) error {
	return m.Called(ctx, req).Error(0)
}

func TestVerifyHandler(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "подтверждено", expectedStatus: http.StatusOK},
		{name: "аккаунт не найден", err: authservice.ErrAccountNotFound, expectedStatus: http.StatusNotFound},
		{name: "уже подтверждён", err: authservice.ErrAlreadyVerified, expectedStatus: http.StatusBadRequest},
		{name: "неверный код", err: authservice.ErrInvalidToken, expectedStatus: http.StatusBadRequest},
		{name: "ошибка сервиса", err: errors.New("db error"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			mockService.On("Verify", mock.Anything, models.VerifyRequest{Email: "a@b.co", VerificationToken: "tok"}).Return(tt.err).Once()
			handler := New(slog.New(slog.NewTextHandler(io.Discard, nil)), mockService)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/accounts/verify", bytes.NewBufferString(`{"email":"a@b.co","verification_token":"tok"}`))
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}
