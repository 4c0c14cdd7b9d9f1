// Package services содержит регистрацию аккаунтов, подтверждение почты,
// вход по JWT и сброс пароля.
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/streamflix/internal/config"
	"github.com/magabrotheeeer/streamflix/internal/lib/jwt"
	"github.com/magabrotheeeer/streamflix/internal/lib/password"
	"github.com/magabrotheeeer/streamflix/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
	"github.com/magabrotheeeer/streamflix/internal/models"
	"github.com/magabrotheeeer/streamflix/internal/storage"
)

var (
	// ErrEmailTaken — почта уже занята другим аккаунтом.
	ErrEmailTaken = errors.New("email already in use")
	// ErrAccountNotFound — аккаунт не найден.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidCredentials — неизвестная почта или неверный пароль. Различать их наружу нельзя.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotVerified — почта аккаунта ещё не подтверждена.
	ErrNotVerified = errors.New("account not verified")
	// ErrAlreadyVerified — повторное подтверждение почты.
	ErrAlreadyVerified = errors.New("account already verified")
	// ErrAccountLocked — вход временно заблокирован после серии неудачных попыток.
	ErrAccountLocked = errors.New("account temporarily locked")
	// ErrAccountInactive — аккаунт отключён.
	ErrAccountInactive = errors.New("account is disabled")
	// ErrInvalidToken — токен подтверждения, сброса или JWT неверен либо истёк.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// AccountRepository определяет методы хранилища аккаунтов.
// Изменения аккаунта выполняются в RunInTx поверх строки, заблокированной LockAccountByEmail.
type AccountRepository interface {
	CreateAccount(ctx context.Context, a *models.Account) (int64, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	LockAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	GetAccount(ctx context.Context, accountID int64) (*models.Account, error)
	UpdateAccount(ctx context.Context, a *models.Account) error
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// TokenStore хранит отозванные токены и отметки частоты писем.
type TokenStore interface {
	RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error
	Throttle(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Publisher отправляет уведомление в очередь.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// LoginResult — результат успешного входа.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthService отвечает за аккаунты и аутентификацию.
type AuthService struct {
	accounts  AccountRepository
	tokens    TokenStore
	jwtMaker  jwt.Maker
	publisher Publisher
	policy    config.Account
	log       *slog.Logger
	now       func() time.Time
	newToken  func() string
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(accounts AccountRepository, tokens TokenStore, jwtMaker jwt.Maker, publisher Publisher, policy config.Account, log *slog.Logger) *AuthService {
	return &AuthService{
		accounts:  accounts,
		tokens:    tokens,
		jwtMaker:  jwtMaker,
		publisher: publisher,
		policy:    policy,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
		newToken:  uuid.NewString,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register создает неподтверждённый аккаунт и отправляет токен подтверждения на почту.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AccountInfo, error) {
	const op = "services.Register"
	email := normalizeEmail(req.Email)

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	now := s.now()
	token := s.newToken()
	expire := now.Add(s.policy.VerificationTokenTTL)
	account := &models.Account{
		Email:             email,
		PasswordHash:      hashed,
		RegistrationDate:  now,
		IsActive:          true,
		VerificationToken:  &token,
		VerificationExpire: &expire,
	}

	id, err := s.accounts.CreateAccount(ctx, account)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	account.ID = id

	s.notify(ctx, rabbitmq.RoutingVerification, models.AccountTokenEvent{
		Email: email, Token: token, ExpiresAt: expire,
	})
	info := account.Info()
	return &info, nil
}

// Verify подтверждает почту по токену из письма.
func (s *AuthService) Verify(ctx context.Context, req models.VerifyRequest) error {
	const op = "services.Verify"
	err := s.accounts.RunInTx(ctx, func(ctx context.Context) error {
		account, err := s.lockByEmail(ctx, req.Email)
		if err != nil {
			return err
		}
		if account.IsVerified {
			return ErrAlreadyVerified
		}
		if !s.tokenValid(account.VerificationToken, account.VerificationExpire, req.VerificationToken) {
			return ErrInvalidToken
		}

		account.IsVerified = true
		account.VerificationToken = nil
		account.VerificationExpire = nil
		return s.accounts.UpdateAccount(ctx, account)
	})
	if err != nil {
		if isAuthError(err) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Login проверяет пароль и выпускает JWT.
// После policy.MaxFailedLogins неудачных попыток подряд вход блокируется на policy.LockoutDuration.
// Проверка и учёт попытки идут под блокировкой строки аккаунта, поэтому
// параллельные попытки с неверным паролем не теряют инкременты счётчика.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*LoginResult, error) {
	const op = "services.Login"
	var account *models.Account
	var mismatch bool
	err := s.accounts.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		account, err = s.lockByEmail(ctx, req.Email)
		if err != nil {
			return err
		}
		if !account.IsActive {
			return ErrAccountInactive
		}
		if !account.IsVerified {
			return ErrNotVerified
		}
		now := s.now()
		if account.IsLocked(now) {
			return ErrAccountLocked
		}

		if err := password.CompareHash(account.PasswordHash, req.Password); err != nil {
			if !errors.Is(err, password.ErrMismatch) {
				return err
			}
			mismatch = true
			account.FailedLoginAttempts++
			if account.FailedLoginAttempts >= s.policy.MaxFailedLogins {
				until := now.Add(s.policy.LockoutDuration)
				account.BlockedUntil = &until
				account.FailedLoginAttempts = 0
				s.log.Warn("account locked after failed logins", slog.Int64("account_id", account.ID))
			}
			return s.accounts.UpdateAccount(ctx, account)
		}

		account.FailedLoginAttempts = 0
		account.BlockedUntil = nil
		account.LastLogin = &now
		return s.accounts.UpdateAccount(ctx, account)
	})
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		if isAuthError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// Счётчик неудачных попыток должен быть зафиксирован, поэтому ошибку отдаём после коммита.
	if mismatch {
		return nil, ErrInvalidCredentials
	}

	token, claims, err := s.jwtMaker.GenerateToken(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &LoginResult{Token: token, ExpiresAt: claims.ExpiresAtTime()}, nil
}

// Logout отзывает токен до истечения его срока.
func (s *AuthService) Logout(ctx context.Context, claims *jwt.CustomClaims) error {
	const op = "services.Logout"
	if claims == nil || claims.TokenID() == "" {
		return ErrInvalidToken
	}
	if err := s.tokens.RevokeToken(ctx, claims.TokenID(), claims.ExpiresAtTime()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RequestPasswordReset выпускает токен сброса и отправляет его на почту.
// Для неизвестной почты ничего не делает и ошибки не возвращает.
// Токен подтверждения почты и его срок не трогает.
func (s *AuthService) RequestPasswordReset(ctx context.Context, req models.PasswordResetRequest) error {
	const op = "services.RequestPasswordReset"
	email := normalizeEmail(req.Email)
	if _, err := s.getByEmail(ctx, email); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	// Не чаще одного письма в минуту на аккаунт.
	allowed, err := s.tokens.Throttle(ctx, "password_reset:"+email, time.Minute)
	if err != nil {
		s.log.Error("throttle check failed", sl.Err(err))
	} else if !allowed {
		return nil
	}

	token := s.newToken()
	expire := s.now().Add(s.policy.ResetTokenTTL)
	err = s.accounts.RunInTx(ctx, func(ctx context.Context) error {
		account, err := s.lockByEmail(ctx, email)
		if err != nil {
			return err
		}
		account.PasswordResetToken = &token
		account.PasswordResetExpire = &expire
		return s.accounts.UpdateAccount(ctx, account)
	})
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.notify(ctx, rabbitmq.RoutingPasswordReset, models.AccountTokenEvent{
		Email: email, Token: token, ExpiresAt: expire,
	})
	return nil
}

// ResetPassword устанавливает новый пароль по токену сброса.
func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	const op = "services.ResetPassword"
	hashed, err := password.GetHash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = s.accounts.RunInTx(ctx, func(ctx context.Context) error {
		account, err := s.lockByEmail(ctx, req.Email)
		if err != nil {
			if errors.Is(err, ErrAccountNotFound) {
				return ErrInvalidToken
			}
			return err
		}
		if !s.tokenValid(account.PasswordResetToken, account.PasswordResetExpire, req.PasswordResetToken) {
			return ErrInvalidToken
		}

		account.PasswordHash = hashed
		account.PasswordResetToken = nil
		account.PasswordResetExpire = nil
		account.FailedLoginAttempts = 0
		account.BlockedUntil = nil
		return s.accounts.UpdateAccount(ctx, account)
	})
	if err != nil {
		if isAuthError(err) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetAccountInfo возвращает публичные данные аккаунта.
func (s *AuthService) GetAccountInfo(ctx context.Context, accountID int64) (*models.AccountInfo, error) {
	const op = "services.GetAccountInfo"
	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	info := account.Info()
	return &info, nil
}

func (s *AuthService) getByEmail(ctx context.Context, email string) (*models.Account, error) {
	account, err := s.accounts.GetAccountByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *AuthService) lockByEmail(ctx context.Context, email string) (*models.Account, error) {
	account, err := s.accounts.LockAccountByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// isAuthError сообщает, что err — одна из ошибок пакета и её можно отдавать как есть.
func isAuthError(err error) bool {
	for _, target := range []error{
		ErrAccountNotFound, ErrInvalidCredentials, ErrNotVerified, ErrAlreadyVerified,
		ErrAccountLocked, ErrAccountInactive, ErrInvalidToken,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (s *AuthService) tokenValid(stored *string, expire *time.Time, given string) bool {
	if stored == nil || expire == nil || given == "" {
		return false
	}
	if expire.Before(s.now()) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*stored), []byte(given)) == 1
}

func (s *AuthService) notify(ctx context.Context, routingKey string, event models.AccountTokenEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		s.log.Error("failed to publish notification",
			slog.String("routing_key", routingKey), sl.Err(err))
	}
}
