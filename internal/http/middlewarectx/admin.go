package middlewarectx

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/streamflix/internal/http/response"
)

// RequireAdmin пропускает только аккаунты, чей email есть в emails.
// Ставится после JWTMiddleware. Сравнение без учёта регистра.
// Пустой список закрывает доступ всем.
func RequireAdmin(emails []string, log *slog.Logger) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			allowed[e] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireAdmin"

			email, _ := r.Context().Value(Email).(string)
			if email == "" {
				response.Fail(w, r, http.StatusUnauthorized, "unauthorized")
				return
			}
			if _, ok := allowed[strings.ToLower(email)]; !ok {
				log.Warn("catalog admin access denied",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("email", email),
				)
				response.Fail(w, r, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
