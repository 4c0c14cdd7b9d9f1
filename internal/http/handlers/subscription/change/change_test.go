package change

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/streamflix/internal/http/middlewarectx"
	"github.com/magabrotheeeer/streamflix/internal/models"
	subservice "github.com/magabrotheeeer/streamflix/internal/services/subscription"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Change(ctx context.Context, accountID, subscriptionID int64, req models.ChangeSubscriptionRequest) (*models.Subscription, error) {
	args := m.Called(ctx, accountID, subscriptionID, req)
	if res := args.Get(0); res != nil {
		return res.(*models.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestChangeHandler(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "смена тарифа",
			id:   "9",
			body: `{"new_subscription_type":"UHD"}`,
			setupMock: func(m *MockService) {
				m.On("Change", mock.Anything, int64(3), int64(9), models.ChangeSubscriptionRequest{NewSubscriptionType: "UHD"}).
					Return(&models.Subscription{ID: 9, Type: models.PlanUHD, BasePrice: decimal.RequireFromString("13.99")}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"base_price":"13.99"`,
		},
		{
			name:           "некорректный id",
			id:             "abc",
			body:           `{"new_subscription_type":"UHD"}`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid subscription id"`,
		},
		{
			name: "неизвестный тариф",
			id:   "9",
			body: `{"new_subscription_type":"8K"}`,
			setupMock: func(m *MockService) {
				m.On("Change", mock.Anything, int64(3), int64(9), mock.Anything).Return(nil, subservice.ErrInvalidPlan).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid subscription type"`,
		},
		{
			name: "подписка не найдена",
			id:   "9",
			body: `{"new_subscription_type":"SD"}`,
			setupMock: func(m *MockService) {
				m.On("Change", mock.Anything, int64(3), int64(9), mock.Anything).Return(nil, subservice.ErrSubscriptionNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "ошибка сервиса",
			id:   "9",
			body: `{"new_subscription_type":"SD"}`,
			setupMock: func(m *MockService) {
				m.On("Change", mock.Anything, int64(3), int64(9), mock.Anything).Return(nil, errors.New("db error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)
			handler := New(newNoopLogger(), mockService)

			req := httptest.NewRequest(http.MethodPut, "/subscriptions/"+tt.id, bytes.NewBufferString(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middlewarectx.AccountID, int64(3))
			req = req.WithContext(ctx)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
