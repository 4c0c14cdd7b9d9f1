package history

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/streamflix/internal/http/middlewarectx"
	"github.com/magabrotheeeer/streamflix/internal/models"
	profservice "github.com/magabrotheeeer/streamflix/internal/services/profile"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) History(ctx context.Context, accountID, profileID int64) ([]*models.ViewingHistory, error) {
	args := m.Called(ctx, accountID, profileID)
	if res := args.Get(0); res != nil {
		return res.([]*models.ViewingHistory), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestHistoryHandler(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "история профиля",
			setupMock: func(m *MockService) {
				m.On("History", mock.Anything, int64(3), int64(5)).Return([]*models.ViewingHistory{
					models.NewViewing(5, 10, nil, time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)),
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"is_completed":false`,
		},
		{
			name: "чужой профиль",
			setupMock: func(m *MockService) {
				m.On("History", mock.Anything, int64(3), int64(5)).Return(nil, profservice.ErrProfileNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "ошибка сервиса",
			setupMock: func(m *MockService) {
				m.On("History", mock.Anything, int64(3), int64(5)).Return(nil, errors.New("db error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)
			handler := New(slog.New(slog.NewTextHandler(io.Discard, nil)), mockService)

			req := httptest.NewRequest(http.MethodGet, "/profiles/5/history", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "5")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middlewarectx.AccountID, int64(3))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req.WithContext(ctx))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
