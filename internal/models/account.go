package models

import "time"

// Account представляет зарегистрированный аккаунт.
// Аккаунт владеет не более чем одной активной подпиской и любым количеством приглашений.
type Account struct {
	ID                  int64      // Идентификатор аккаунта
	Email               string     // Электронная почта (уникальная)
	PasswordHash        string     // bcrypt-хэш пароля
	RegistrationDate    time.Time  // Дата регистрации
	LastLogin           *time.Time // Дата последнего входа
	IsActive            bool       // Аккаунт не заблокирован администратором
	IsVerified          bool       // Почта подтверждена
	FailedLoginAttempts int        // Количество неудачных попыток входа подряд
	BlockedUntil        *time.Time // Вход запрещён до этого момента
	VerificationToken   *string    // Токен подтверждения почты
	VerificationExpire  *time.Time // Срок действия токена подтверждения
	PasswordResetToken  *string    // Токен сброса пароля
	PasswordResetExpire *time.Time // Срок действия токена сброса
}

// IsLocked сообщает, заблокирован ли вход в аккаунт на момент now.
func (a *Account) IsLocked(now time.Time) bool {
	return a.BlockedUntil != nil && a.BlockedUntil.After(now)
}

// AccountInfo — публичная проекция аккаунта.
type AccountInfo struct {
	ID               int64      `json:"account_id"`
	Email            string     `json:"email"`
	RegistrationDate time.Time  `json:"registration_date"`
	LastLogin        *time.Time `json:"last_login,omitempty"`
	IsActive         bool       `json:"is_active"`
	IsVerified       bool       `json:"is_verified"`
}

// Info возвращает публичную проекцию аккаунта.
func (a *Account) Info() AccountInfo {
	return AccountInfo{
		ID:               a.ID,
		Email:            a.Email,
		RegistrationDate: a.RegistrationDate,
		LastLogin:        a.LastLogin,
		IsActive:         a.IsActive,
		IsVerified:       a.IsVerified,
	}
}

// RegisterRequest — тело запроса регистрации.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// VerifyRequest — тело запроса подтверждения почты.
type VerifyRequest struct {
	Email             string `json:"email" validate:"required,email"`
	VerificationToken string `json:"verification_token" validate:"required"`
}

// LoginRequest — тело запроса входа.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// PasswordResetRequest — запрос на отправку токена сброса пароля.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest — установка нового пароля по токену.
type ResetPasswordRequest struct {
	Email              string `json:"email" validate:"required,email"`
	PasswordResetToken string `json:"password_reset_token" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required,min=8,max=72"`
}
