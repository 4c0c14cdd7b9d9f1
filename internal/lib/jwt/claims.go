// Package jwt реализует выпуск и проверку JWT токенов доступа.
//
// Токен подписывается HS256 и содержит ID аккаунта, email и уникальный
// идентификатор (jti), по которому токен можно отозвать при выходе.
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims описывает данные, хранящиеся в токене.
type CustomClaims struct {
	AccountID            int64  `json:"account_id"` // ID аккаунта
	Email                string `json:"email"`      // Email аккаунта
	jwt.RegisteredClaims        // jti, ExpiresAt, IssuedAt
}

// TokenID возвращает jti токена.
func (c *CustomClaims) TokenID() string {
	return c.ID
}

// ExpiresAtTime возвращает момент истечения токена.
func (c *CustomClaims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Maker описывает выпуск и разбор токенов.
type Maker interface {
	GenerateToken(accountID int64, email string) (string, *CustomClaims, error)
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует Maker на общем секретном ключе.
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
	now       func() time.Time
}

// NewJWTMaker создаёт MakerImpl с секретным ключом и временем жизни токена.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
		now:       time.Now,
	}
}
