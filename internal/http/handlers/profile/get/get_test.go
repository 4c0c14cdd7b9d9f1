package get

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

	"github.com/magabrotheeeer/streamflix/internal/http/middlewarectx"
	"github.com/magabrotheeeer/streamflix/internal/models"
	profservice "github.com/magabrotheeeer/streamflix/internal/services/profile"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Get(ctx context.Context, accountID, profileID int64) (*models.Profile, error) {
	args := m.Called(ctx, accountID, profileID)
	if res := args.Get(0); res != nil {
		return res.(*models.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestGetHandler(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "свой профиль",
			id:   "5",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, int64(3), int64(5)).Return(&models.Profile{
					ID: 5, AccountID: 3, Name: "Anna",
					Preference: &models.Preference{ContentType: models.PreferSeries},
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"content_type":"series"`,
		},
		{
			name:           "неверный id",
			id:             "abc",
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid profile id"`,
		},
		{
			name: "чужой профиль",
			id:   "6",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, int64(3), int64(6)).Return(nil, profservice.ErrProfileNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"profile not found"`,
		},
		{
			name: "ошибка сервиса",
			id:   "5",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, int64(3), int64(5)).Return(nil, errors.New("db error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)
			handler := New(slog.New(slog.NewTextHandler(io.Discard, nil)), mockService)

			req := httptest.NewRequest(http.MethodGet, "/profiles/"+tt.id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
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
