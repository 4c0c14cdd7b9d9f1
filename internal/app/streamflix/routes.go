// Package streamflix собирает HTTP API: аккаунты, подписки, рефералы,
// каталог, профили, списки «смотреть позже» и историю просмотров.
package streamflix

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация swagger-спецификации.
	_ "github.com/magabrotheeeer/streamflix/internal/docs"
	"github.com/magabrotheeeer/streamflix/internal/http/handlers/account/login"
	"github.com/magabrotheeeer/streamflix/internal/http/handlers/account/logout"
	"github.com/magabrotheeeer/streamflix/internal/http/handlers/account/me"
	"github.com/magabrotheeeer/streamflix/internal/http/handlers/account/register"
	"github.com/magabrotheeeer/streamflix/internal/http/handlers/account/resetpassword"
	"github.com/magabrotheeeer/streamflix/internal/http/handlers/account/resetrequest"
	"github.com/magabrotheeeer/streamflix/internal/http/handlers/account/verify"
	contentcreate "github.com/magabrotheeeer/streamflix/internal/http/handlers/content/create"
	contentget "github.com/magabrotheeeer/streamflix/internal/http/handlers/content/get"
	contentlist "github.com/magabrotheeeer/streamflix/internal/http/handlers/content/list"
	"github.com/magabrotheeeer/streamflix/internal/http/handlers/content/recommend"
	contentremove "github.com/magabrotheeeer/streamflix/internal/http/handlers/content/remove"
	contentupdate "github.com/magabrotheeeer/streamflix/internal/http/handlers/content/update"
	"github.com/magabrotheeeer/streamflix/internal/http/handlers/health"
	profilecreate "github.com/magabrotheeeer/streamflix/internal/http/handlers/profile/create"
	profileget "github.com/magabrotheeeer/streamflix/internal/http/handlers/profile/get"
	profilelist "github.com/magabrotheeeer/streamflix/internal/http/handlers/profile/list"
	"github.com/magabrotheeeer/streamflix/internal/http/handlers/profile/preference"
	profileremove "github.com/magabrotheeeer/streamflix/internal/http/handlers/profile/remove"
	profileupdate "github.com/magabrotheeeer/streamflix/internal/http/handlers/profile/update"
	"github.com/magabrotheeeer/streamflix/internal/http/handlers/referral/accept"
	"github.com/magabrotheeeer/streamflix/internal/http/handlers/referral/discount"
	"github.com/magabrotheeeer/streamflix/internal/http/handlers/referral/invite"
	"github.com/magabrotheeeer/streamflix/internal/http/handlers/referral/status"
	"github.com/magabrotheeeer/streamflix/internal/http/handlers/subscription/cancel"
	"github.com/magabrotheeeer/streamflix/internal/http/handlers/subscription/change"
	"github.com/magabrotheeeer/streamflix/internal/http/handlers/subscription/create"
	"github.com/magabrotheeeer/streamflix/internal/http/handlers/subscription/get"
	"github.com/magabrotheeeer/streamflix/internal/http/handlers/subscription/plans"
	"github.com/magabrotheeeer/streamflix/internal/http/handlers/subscription/renew"
	"github.com/magabrotheeeer/streamflix/internal/http/handlers/viewing/complete"
	"github.com/magabrotheeeer/streamflix/internal/http/handlers/viewing/history"
	"github.com/magabrotheeeer/streamflix/internal/http/handlers/viewing/progress"
	"github.com/magabrotheeeer/streamflix/internal/http/handlers/viewing/resume"
	"github.com/magabrotheeeer/streamflix/internal/http/handlers/viewing/start"
	watchlistadd "github.com/magabrotheeeer/streamflix/internal/http/handlers/watchlist/add"
	watchlistlist "github.com/magabrotheeeer/streamflix/internal/http/handlers/watchlist/list"
	watchlistremove "github.com/magabrotheeeer/streamflix/internal/http/handlers/watchlist/remove"
	"github.com/magabrotheeeer/streamflix/internal/http/middlewarectx"
	"github.com/magabrotheeeer/streamflix/internal/metrics"
	authservice "github.com/magabrotheeeer/streamflix/internal/services/auth"
	contservice "github.com/magabrotheeeer/streamflix/internal/services/content"
	profservice "github.com/magabrotheeeer/streamflix/internal/services/profile"
	refservice "github.com/magabrotheeeer/streamflix/internal/services/referral"
	subservice "github.com/magabrotheeeer/streamflix/internal/services/subscription"
	viewservice "github.com/magabrotheeeer/streamflix/internal/services/viewing"
	wlservice "github.com/magabrotheeeer/streamflix/internal/services/watchlist"
)

// Deps — всё, что нужно маршрутам.
type Deps struct {
	Log           *slog.Logger
	Auth          *authservice.AuthService
	Subscriptions *subservice.SubscriptionService
	Referrals     *refservice.ReferralService
	Profiles      *profservice.ProfileService
	Contents      *contservice.ContentService
	Watchlists    *wlservice.WatchlistService
	Viewings      *viewservice.ViewingService
	AdminEmails   []string
	Tokens        middlewarectx.TokenParser
	Revocations   middlewarectx.RevocationChecker
	Limiter       *middlewarectx.RateLimiter
	Metrics       *metrics.Metrics
	Gatherer      prometheus.Gatherer
	HealthChecks  map[string]health.Pinger
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Deps) {
	logger := d.Log

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middlewarectx.RequestLogger(logger),
		middleware.Recoverer,
		middleware.URLFormat,
		d.Metrics.Middleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(d.Limiter.Middleware(logger))

		// Открытые конечные точки
		r.Post("/accounts/register", register.New(logger, d.Auth).ServeHTTP)
		r.Post("/accounts/verify", verify.New(logger, d.Auth).ServeHTTP)
		r.Post("/accounts/login", login.New(logger, d.Auth).ServeHTTP)
		r.Post("/accounts/password-reset/request", resetrequest.New(logger, d.Auth).ServeHTTP)
		r.Post("/accounts/password-reset", resetpassword.New(logger, d.Auth).ServeHTTP)
		r.Get("/subscriptions/plans", plans.New(logger, d.Subscriptions).ServeHTTP)
		r.Get("/referrals/{code}/status", status.New(logger, d.Referrals).ServeHTTP)
		r.Get("/content", contentlist.New(logger, d.Contents).ServeHTTP)
		r.Get("/content/{id}", contentget.New(logger, d.Contents).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(d.Tokens, d.Revocations, logger))

			r.Post("/accounts/logout", logout.New(logger, d.Auth).ServeHTTP)
			r.Get("/accounts/me", me.New(logger, d.Auth).ServeHTTP)

			r.Get("/subscriptions", get.New(logger, d.Subscriptions).ServeHTTP)
			r.Post("/subscriptions", create.New(logger, d.Subscriptions).ServeHTTP)
			r.Put("/subscriptions/{id}", change.New(logger, d.Subscriptions).ServeHTTP)
			r.Delete("/subscriptions/{id}", cancel.New(logger, d.Subscriptions).ServeHTTP)
			r.Post("/subscriptions/{id}/renew", renew.New(logger, d.Subscriptions).ServeHTTP)

			r.Post("/referrals", invite.New(logger, d.Referrals).ServeHTTP)
			r.Post("/referrals/accept", accept.New(logger, d.Referrals).ServeHTTP)
			r.Get("/referrals/discount", discount.New(logger, d.Referrals).ServeHTTP)

			r.Get("/profiles", profilelist.New(logger, d.Profiles).ServeHTTP)
			r.Post("/profiles", profilecreate.New(logger, d.Profiles).ServeHTTP)
			r.Get("/profiles/{id}", profileget.New(logger, d.Profiles).ServeHTTP)
			r.Put("/profiles/{id}", profileupdate.New(logger, d.Profiles).ServeHTTP)
			r.Delete("/profiles/{id}", profileremove.New(logger, d.Profiles).ServeHTTP)
			r.Put("/profiles/{id}/preference", preference.New(logger, d.Profiles).ServeHTTP)
			r.Get("/profiles/{id}/recommendations", recommend.New(logger, d.Contents).ServeHTTP)

			r.Get("/profiles/{id}/watchlist", watchlistlist.New(logger, d.Watchlists).ServeHTTP)
			r.Post("/profiles/{id}/watchlist/{contentID}", watchlistadd.New(logger, d.Watchlists).ServeHTTP)
			r.Delete("/profiles/{id}/watchlist/{contentID}", watchlistremove.New(logger, d.Watchlists).ServeHTTP)

			r.Get("/profiles/{id}/history", history.New(logger, d.Viewings).ServeHTTP)
			r.Post("/profiles/{id}/history", start.New(logger, d.Viewings).ServeHTTP)
			r.Get("/profiles/{id}/history/resume/{contentID}", resume.New(logger, d.Viewings).ServeHTTP)
			r.Put("/history/{id}", progress.New(logger, d.Viewings).ServeHTTP)
			r.Post("/history/{id}/complete", complete.New(logger, d.Viewings).ServeHTTP)

			// Управление каталогом
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireAdmin(d.AdminEmails, logger))

				r.Post("/content", contentcreate.New(logger, d.Contents).ServeHTTP)
				r.Put("/content/{id}", contentupdate.New(logger, d.Contents).ServeHTTP)
				r.Delete("/content/{id}", contentremove.New(logger, d.Contents).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, d.HealthChecks).ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
