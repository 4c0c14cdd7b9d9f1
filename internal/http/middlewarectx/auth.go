// Package middlewarectx содержит HTTP middleware: проверку JWT с учётом
// отозванных токенов, ограничение частоты запросов и журнал запросов.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/streamflix/internal/http/response"
	"github.com/magabrotheeeer/streamflix/internal/lib/jwt"
	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// AccountID — ключ для ID аккаунта в контексте.
	AccountID Key = "account_id"
	// Email — ключ для email аккаунта в контексте.
	Email Key = "email"
	// Claims — ключ для разобранного токена в контексте.
	Claims Key = "claims"
)

// TokenParser разбирает и проверяет токен.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.CustomClaims, error)
}

// RevocationChecker сообщает, отозван ли токен.
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
//
// Если токен валиден и не отозван, кладёт в контекст ID аккаунта, email и claims,
// иначе отвечает 401 Unauthorized.
func JWTMiddleware(parser TokenParser, revoked RevocationChecker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				response.Fail(w, r, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := parser.ParseToken(tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				response.Fail(w, r, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			isRevoked, err := revoked.IsTokenRevoked(r.Context(), claims.TokenID())
			if err != nil {
				log.Error("failed to check token revocation", sl.Err(err))
				response.Fail(w, r, http.StatusInternalServerError, "internal error")
				return
			}
			if isRevoked {
				log.Info("revoked token used", slog.Int64("account_id", claims.AccountID))
				response.Fail(w, r, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), AccountID, claims.AccountID)
			ctx = context.WithValue(ctx, Email, claims.Email)
			ctx = context.WithValue(ctx, Claims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountIDFrom возвращает ID аккаунта, положенный JWTMiddleware.
func AccountIDFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(AccountID).(int64)
	return id, ok && id > 0
}

// ClaimsFrom возвращает разобранный токен, положенный JWTMiddleware.
func ClaimsFrom(ctx context.Context) (*jwt.CustomClaims, bool) {
	claims, ok := ctx.Value(Claims).(*jwt.CustomClaims)
	return claims, ok && claims != nil
}
