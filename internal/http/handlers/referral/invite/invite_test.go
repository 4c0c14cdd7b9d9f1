package invite

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/streamflix/internal/http/middlewarectx"
	"github.com/magabrotheeeer/streamflix/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CreateInvitation(ctx context.Context, referrerID int64) (*models.Referral, error) {
	args := m.Called(ctx, referrerID)
	if res := args.Get(0); res != nil {
		return res.(*models.Referral), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestInviteHandler(t *testing.T) {
	tests := []struct {
		name           string
		accountID      int64
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "приглашение создано",
			accountID: 7,
			setupMock: func(m *MockService) {
				m.On("CreateInvitation", mock.Anything, int64(7)).
					Return(&models.Referral{ID: 3, ReferrerAccountID: 7, InvitationCode: "0123456789abcdef0123456789abcdef", IsActive: true}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"invitation_code":"0123456789abcdef0123456789abcdef"`,
		},
		{
			name:           "без аккаунта",
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:      "ошибка сервиса",
			accountID: 7,
			setupMock: func(m *MockService) {
				m.On("CreateInvitation", mock.Anything, int64(7)).Return(nil, errors.New("db error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)
			handler := New(slog.New(slog.NewTextHandler(io.Discard, nil)), mockService)

			req := httptest.NewRequest(http.MethodPost, "/referrals", nil)
			if tt.accountID != 0 {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.AccountID, tt.accountID))
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
