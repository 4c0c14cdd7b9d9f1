package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/streamflix/internal/config"
	"github.com/magabrotheeeer/streamflix/internal/lib/jwt"
	"github.com/magabrotheeeer/streamflix/internal/lib/password"
	"github.com/magabrotheeeer/streamflix/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/streamflix/internal/models"
	"github.com/magabrotheeeer/streamflix/internal/storage"
)

// accountStore — хранилище аккаунтов в памяти.
// RunInTx сериализует транзакции так же, как SELECT ... FOR UPDATE сериализует их над одной строкой.
type accountStore struct {
	txMu     sync.Mutex
	mu       sync.Mutex
	nextID   int64
	byID     map[int64]*models.Account
	failNext error
}

func newAccountStore() *accountStore {
	return &accountStore{byID: map[int64]*models.Account{}}
}

func (s *accountStore) CreateAccount(_ context.Context, a *models.Account) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return 0, err
	}
	for _, existing := range s.byID {
		if existing.Email == a.Email {
			return 0, storage.ErrAlreadyExists
		}
	}
	s.nextID++
	cp := *a
	cp.ID = s.nextID
	s.byID[cp.ID] = &cp
	return cp.ID, nil
}

func (s *accountStore) GetAccountByEmail(_ context.Context, email string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.byID {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *accountStore) LockAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.GetAccountByEmail(ctx, email)
}

func (s *accountStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(ctx)
}

func (s *accountStore) GetAccount(_ context.Context, id int64) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *accountStore) UpdateAccount(_ context.Context, a *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[a.ID]; !ok {
		return storage.ErrNotFound
	}
	cp := *a
	s.byID[a.ID] = &cp
	return nil
}

type TokenStoreMock struct{ mock.Mock }

func (m *TokenStoreMock) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	return m.Called(ctx, jti, expiresAt).Error(0)
}

func (m *TokenStoreMock) Throttle(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, message any) error {
	return m.Called(ctx, routingKey, message).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

var testPolicy = config.Account{
	MaxFailedLogins:      5,
	LockoutDuration:      15 * time.Minute,
	VerificationTokenTTL: 24 * time.Hour,
	ResetTokenTTL:        time.Hour,
}

type fixture struct {
	svc       *AuthService
	accounts  *accountStore
	tokens    *TokenStoreMock
	publisher *PublisherMock
	clock     *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		accounts:  newAccountStore(),
		tokens:    new(TokenStoreMock),
		publisher: new(PublisherMock),
	}
	now := fixedNow
	f.clock = &now
	f.svc = NewAuthService(f.accounts, f.tokens, jwt.NewJWTMaker("test-secret", time.Hour), f.publisher, testPolicy, newNoopLogger())
	f.svc.now = func() time.Time { return *f.clock }
	f.svc.newToken = func() string { return "token-123" }
	return f
}

// verifiedAccount заводит подтверждённый аккаунт с паролем "password123".
func (f *fixture) verifiedAccount(t *testing.T, email string) int64 {
	t.Helper()
	hash, err := password.GetHash("password123")
	require.NoError(t, err)
	id, err := f.accounts.CreateAccount(context.Background(), &models.Account{
		Email: email, PasswordHash: hash, RegistrationDate: fixedNow, IsActive: true, IsVerified: true,
	})
	require.NoError(t, err)
	return id
}

func TestAuthService_Register(t *testing.T) {
	f := newFixture(t)
	f.publisher.On("Publish", mock.Anything, rabbitmq.RoutingVerification, models.AccountTokenEvent{
		Email: "user@example.com", Token: "token-123", ExpiresAt: fixedNow.Add(24 * time.Hour),
	}).Return(nil).Once()

	info, err := f.svc.Register(context.Background(), models.RegisterRequest{Email: "  User@Example.com ", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", info.Email)
	assert.False(t, info.IsVerified)
	assert.True(t, info.IsActive)

	stored, err := f.accounts.GetAccount(context.Background(), info.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	require.NoError(t, password.CompareHash(stored.PasswordHash, "password123"))
	f.publisher.AssertExpectations(t)

	_, err = f.svc.Register(context.Background(), models.RegisterRequest{Email: "user@example.com", Password: "password456"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Register_PublishFailureIgnored(t *testing.T) {
	f := newFixture(t)
	f.publisher.On("Publish", mock.Anything, rabbitmq.RoutingVerification, mock.Anything).Return(errors.New("broker down"))

	_, err := f.svc.Register(context.Background(), models.RegisterRequest{Email: "a@b.c", Password: "password123"})
	assert.NoError(t, err)
}

func TestAuthService_Verify(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		advance time.Duration
		email   string
		twice   bool
		wantErr error
	}{
		{name: "valid token", token: "token-123", email: "a@b.c"},
		{name: "wrong token", token: "nope", email: "a@b.c", wantErr: ErrInvalidToken},
		{name: "expired token", token: "token-123", email: "a@b.c", advance: 25 * time.Hour, wantErr: ErrInvalidToken},
		{name: "unknown account", token: "token-123", email: "x@y.z", wantErr: ErrAccountNotFound},
		{name: "already verified", token: "token-123", email: "a@b.c", twice: true, wantErr: ErrAlreadyVerified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
			_, err := f.svc.Register(context.Background(), models.RegisterRequest{Email: "a@b.c", Password: "password123"})
			require.NoError(t, err)
			*f.clock = fixedNow.Add(tt.advance)

			req := models.VerifyRequest{Email: tt.email, VerificationToken: tt.token}
			if tt.twice {
				require.NoError(t, f.svc.Verify(context.Background(), req))
			}
			err = f.svc.Verify(context.Background(), req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			acc, err := f.accounts.GetAccountByEmail(context.Background(), "a@b.c")
			require.NoError(t, err)
			assert.True(t, acc.IsVerified)
			assert.Nil(t, acc.VerificationToken)
			assert.Nil(t, acc.VerificationExpire)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t)
	id := f.verifiedAccount(t, "user@example.com")

	res, err := f.svc.Login(context.Background(), models.LoginRequest{Email: "USER@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	claims, err := jwt.NewJWTMaker("test-secret", time.Hour).ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.AccountID)
	assert.Equal(t, "user@example.com", claims.Email)

	acc, err := f.accounts.GetAccount(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, acc.LastLogin)
	assert.Equal(t, fixedNow, *acc.LastLogin)
}

func TestAuthService_Login_Errors(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(f *fixture, t *testing.T)
		req     models.LoginRequest
		wantErr error
	}{
		{
			name:    "unknown email",
			prepare: func(*fixture, *testing.T) {},
			req:     models.LoginRequest{Email: "ghost@example.com", Password: "password123"},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:    "wrong password",
			prepare: func(f *fixture, t *testing.T) { f.verifiedAccount(t, "user@example.com") },
			req:     models.LoginRequest{Email: "user@example.com", Password: "wrong-pass"},
			wantErr: ErrInvalidCredentials,
		},
		{
			name: "not verified",
			prepare: func(f *fixture, t *testing.T) {
				_, err := f.accounts.CreateAccount(context.Background(), &models.Account{Email: "user@example.com", IsActive: true})
				require.NoError(t, err)
			},
			req:     models.LoginRequest{Email: "user@example.com", Password: "password123"},
			wantErr: ErrNotVerified,
		},
		{
			name: "disabled",
			prepare: func(f *fixture, t *testing.T) {
				_, err := f.accounts.CreateAccount(context.Background(), &models.Account{Email: "user@example.com", IsVerified: true})
				require.NoError(t, err)
			},
			req:     models.LoginRequest{Email: "user@example.com", Password: "password123"},
			wantErr: ErrAccountInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.prepare(f, t)
			_, err := f.svc.Login(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthService_Login_Lockout(t *testing.T) {
	f := newFixture(t)
	id := f.verifiedAccount(t, "user@example.com")
	bad := models.LoginRequest{Email: "user@example.com", Password: "wrong-pass"}
	good := models.LoginRequest{Email: "user@example.com", Password: "password123"}

	for i := 0; i < testPolicy.MaxFailedLogins; i++ {
		_, err := f.svc.Login(context.Background(), bad)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	acc, err := f.accounts.GetAccount(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, acc.BlockedUntil)
	assert.Equal(t, fixedNow.Add(15*time.Minute), *acc.BlockedUntil)
	assert.Zero(t, acc.FailedLoginAttempts)

	_, err = f.svc.Login(context.Background(), good)
	assert.ErrorIs(t, err, ErrAccountLocked)

	*f.clock = fixedNow.Add(16 * time.Minute)
	_, err = f.svc.Login(context.Background(), good)
	require.NoError(t, err)

	acc, err = f.accounts.GetAccount(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, acc.BlockedUntil)
}

func TestAuthService_Login_ConcurrentFailuresLock(t *testing.T) {
	f := newFixture(t)
	id := f.verifiedAccount(t, "user@example.com")
	bad := models.LoginRequest{Email: "user@example.com", Password: "wrong-pass"}

	var wg sync.WaitGroup
	errs := make(chan error, testPolicy.MaxFailedLogins)
	for i := 0; i < testPolicy.MaxFailedLogins; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Login(context.Background(), bad)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	acc, err := f.accounts.GetAccount(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, acc.BlockedUntil)
	assert.True(t, acc.IsLocked(fixedNow))

	_, err = f.svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestAuthService_Logout(t *testing.T) {
	f := newFixture(t)
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	_, claims, err := maker.GenerateToken(1, "a@b.c")
	require.NoError(t, err)

	f.tokens.On("RevokeToken", mock.Anything, claims.TokenID(), claims.ExpiresAtTime()).Return(nil).Once()
	require.NoError(t, f.svc.Logout(context.Background(), claims))
	f.tokens.AssertExpectations(t)

	assert.ErrorIs(t, f.svc.Logout(context.Background(), nil), ErrInvalidToken)

	f.tokens.On("RevokeToken", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))
	_, other, err := maker.GenerateToken(1, "a@b.c")
	require.NoError(t, err)
	assert.Error(t, f.svc.Logout(context.Background(), other))
}

func TestAuthService_PasswordReset(t *testing.T) {
	f := newFixture(t)
	id := f.verifiedAccount(t, "user@example.com")

	f.tokens.On("Throttle", mock.Anything, "password_reset:user@example.com", time.Minute).Return(true, nil).Once()
	f.publisher.On("Publish", mock.Anything, rabbitmq.RoutingPasswordReset, models.AccountTokenEvent{
		Email: "user@example.com", Token: "token-123", ExpiresAt: fixedNow.Add(time.Hour),
	}).Return(nil).Once()

	require.NoError(t, f.svc.RequestPasswordReset(context.Background(), models.PasswordResetRequest{Email: "user@example.com"}))

	err := f.svc.ResetPassword(context.Background(), models.ResetPasswordRequest{
		Email: "user@example.com", PasswordResetToken: "wrong", NewPassword: "new-password",
	})
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, f.svc.ResetPassword(context.Background(), models.ResetPasswordRequest{
		Email: "user@example.com", PasswordResetToken: "token-123", NewPassword: "new-password",
	}))

	acc, err := f.accounts.GetAccount(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, acc.PasswordResetToken)
	require.NoError(t, password.CompareHash(acc.PasswordHash, "new-password"))

	// Токен одноразовый.
	err = f.svc.ResetPassword(context.Background(), models.ResetPasswordRequest{
		Email: "user@example.com", PasswordResetToken: "token-123", NewPassword: "other-password",
	})
	assert.ErrorIs(t, err, ErrInvalidToken)
	f.publisher.AssertExpectations(t)
	f.tokens.AssertExpectations(t)
}

func TestAuthService_RequestPasswordReset_SilentCases(t *testing.T) {
	f := newFixture(t)
	f.verifiedAccount(t, "user@example.com")

	require.NoError(t, f.svc.RequestPasswordReset(context.Background(), models.PasswordResetRequest{Email: "ghost@example.com"}))

	f.tokens.On("Throttle", mock.Anything, "password_reset:user@example.com", time.Minute).Return(false, nil).Once()
	require.NoError(t, f.svc.RequestPasswordReset(context.Background(), models.PasswordResetRequest{Email: "user@example.com"}))

	acc, err := f.accounts.GetAccountByEmail(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.Nil(t, acc.PasswordResetToken)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_ResetPassword_Expired(t *testing.T) {
	f := newFixture(t)
	f.verifiedAccount(t, "user@example.com")
	f.tokens.On("Throttle", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	require.NoError(t, f.svc.RequestPasswordReset(context.Background(), models.PasswordResetRequest{Email: "user@example.com"}))

	*f.clock = fixedNow.Add(2 * time.Hour)
	err := f.svc.ResetPassword(context.Background(), models.ResetPasswordRequest{
		Email: "user@example.com", PasswordResetToken: "token-123", NewPassword: "new-password",
	})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_ResetRequestKeepsVerificationToken(t *testing.T) {
	f := newFixture(t)
	f.tokens.On("Throttle", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.Register(context.Background(), models.RegisterRequest{Email: "user@example.com", Password: "password123"})
	require.NoError(t, err)
	f.svc.newToken = func() string { return "reset-456" }
	require.NoError(t, f.svc.RequestPasswordReset(context.Background(), models.PasswordResetRequest{Email: "user@example.com"}))

	acc, err := f.accounts.GetAccountByEmail(context.Background(), "user@example.com")
	require.NoError(t, err)
	require.NotNil(t, acc.VerificationExpire)
	assert.Equal(t, fixedNow.Add(24*time.Hour), *acc.VerificationExpire)
	require.NotNil(t, acc.PasswordResetExpire)
	assert.Equal(t, fixedNow.Add(time.Hour), *acc.PasswordResetExpire)

	// Срок сброса истёк, а подтверждение почты ещё действует.
	*f.clock = fixedNow.Add(2 * time.Hour)
	require.NoError(t, f.svc.Verify(context.Background(), models.VerifyRequest{
		Email: "user@example.com", VerificationToken: "token-123",
	}))
	err = f.svc.ResetPassword(context.Background(), models.ResetPasswordRequest{
		Email: "user@example.com", PasswordResetToken: "reset-456", NewPassword: "new-password",
	})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_GetAccountInfo(t *testing.T) {
	f := newFixture(t)
	id := f.verifiedAccount(t, "user@example.com")

	info, err := f.svc.GetAccountInfo(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", info.Email)

	_, err = f.svc.GetAccountInfo(context.Background(), id+100)
	assert.ErrorIs(t, err, ErrAccountNotFound)

}

func TestAuthService_Register_StorageError(t *testing.T) {
	f := newFixture(t)
	f.accounts.failNext = errors.New("connection reset")

	_, err := f.svc.Register(context.Background(), models.RegisterRequest{Email: "a@b.c", Password: "password123"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailTaken)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}
