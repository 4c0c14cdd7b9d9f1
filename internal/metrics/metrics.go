// Package metrics содержит Prometheus-метрики сервиса и HTTP middleware для их сбора.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics — набор метрик сервиса. Регистрируется в переданном Registerer,
// чтобы тесты могли использовать собственный реестр.
type Metrics struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	subscriptions *prometheus.CounterVec
	referrals     *prometheus.CounterVec
}

// New создаёт метрики и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "streamflix",
			Name:      "http_requests_total",
			Help:      "Количество HTTP-запросов.",
		}, []string{"method", "route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "streamflix",
			Name:      "http_request_duration_seconds",
			Help:      "Длительность обработки HTTP-запросов.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		subscriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "streamflix",
			Name:      "subscriptions_total",
			Help:      "Операции над подписками.",
		}, []string{"plan", "action"}),
		referrals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "streamflix",
			Name:      "referrals_total",
			Help:      "Операции над реферальными приглашениями.",
		}, []string{"action"}),
	}
	reg.MustRegister(m.requests, m.duration, m.subscriptions, m.referrals)
	return m
}

// SubscriptionEvent учитывает операцию над подпиской.
func (m *Metrics) SubscriptionEvent(plan, action string) {
	if m == nil {
		return
	}
	m.subscriptions.WithLabelValues(plan, action).Inc()
}

// ReferralEvent учитывает операцию над приглашением.
func (m *Metrics) ReferralEvent(action string) {
	if m == nil {
		return
	}
	m.referrals.WithLabelValues(action).Inc()
}

// Middleware собирает количество и длительность запросов.
// В метку route попадает шаблон маршрута chi, а не фактический путь.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
