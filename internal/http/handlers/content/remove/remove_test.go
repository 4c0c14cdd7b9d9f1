package remove

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	contservice "github.com/magabrotheeeer/streamflix/internal/services/content"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Delete(ctx context.Context, contentID int64) error {
	return m.Called(ctx, contentID).Error(0)
}

func TestRemoveHandler(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное удаление",
			id:   "1",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, int64(1)).Return(nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"message":"content deleted"`,
		},
		{
			name:           "неверный id",
			id:             "one",
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "нет контента",
			id:   "9",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, int64(9)).Return(contservice.ErrContentNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "ошибка сервиса",
			id:   "1",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, int64(1)).Return(errors.New("db error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)
			handler := New(slog.New(slog.NewTextHandler(io.Discard, nil)), mockService)

			req := httptest.NewRequest(http.MethodDelete, "/content/"+tt.id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx)))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
