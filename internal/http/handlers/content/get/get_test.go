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

	"github.com/magabrotheeeer/streamflix/internal/models"
	contservice "github.com/magabrotheeeer/streamflix/internal/services/content"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Get(ctx context.Context, contentID int64) (*models.Content, error) {
	args := m.Called(ctx, contentID)
	if res := args.Get(0); res != nil {
		return res.(*models.Content), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestGetHandler(t *testing.T) {
	wire := &models.Content{ID: 2, Kind: models.ContentSeries, Title: "The Wire", Series: &models.SeriesInfo{
		TotalSeasons: 1,
		Seasons:      []models.Season{{ID: 1, SeasonNumber: 1, TotalEpisodes: 1, Episodes: []models.Episode{{ID: 1, EpisodeNumber: 1, Title: "The Target"}}}},
	}}

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "сериал с эпизодами",
			id:   "2",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, int64(2)).Return(wire, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"title":"The Target"`,
		},
		{
			name:           "неверный id",
			id:             "x",
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid content id"`,
		},
		{
			name: "нет контента",
			id:   "9",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, int64(9)).Return(nil, contservice.ErrContentNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "ошибка сервиса",
			id:   "2",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, int64(2)).Return(nil, errors.New("db error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)
			handler := New(slog.New(slog.NewTextHandler(io.Discard, nil)), mockService)

			req := httptest.NewRequest(http.MethodGet, "/content/"+tt.id, nil)
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
