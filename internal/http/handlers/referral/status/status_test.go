package status

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
)

type MockService struct {
	mock.Mock
}

func (m *MockService) GetReferralStatus(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

func TestStatusHandler(t *testing.T) {
	tests := []struct {
		name           string
		code           string
		status         string
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{name: "ожидает", code: "a1", status: models.ReferralStatusPending, expectedStatus: http.StatusOK, expectedBody: `{"status":"OK","data":{"invitation_code":"a1","status":"Pending acceptance"}}`},
		{name: "принято", code: "a1", status: models.ReferralStatusAccepted, expectedStatus: http.StatusOK, expectedBody: `{"status":"OK","data":{"invitation_code":"a1","status":"Accepted"}}`},
		{name: "не найдено", code: "zz", status: models.ReferralStatusNotFound, expectedStatus: http.StatusOK, expectedBody: `{"status":"OK","data":{"invitation_code":"zz","status":"Referral not found"}}`},
		{name: "ошибка", code: "a1", err: errors.New("db error"), expectedStatus: http.StatusInternalServerError, expectedBody: `{"status":"Error","error":"could not get referral status"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			mockService.On("GetReferralStatus", mock.Anything, tt.code).Return(tt.status, tt.err).Once()
			handler := New(slog.New(slog.NewTextHandler(io.Discard, nil)), mockService)

			req := httptest.NewRequest(http.MethodGet, "/referrals/"+tt.code+"/status", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("code", tt.code)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
