package models

import "time"

// AccountTokenEvent публикуется при регистрации и запросе сброса пароля.
// Получатель — воркер рассылки, который отправляет токен на почту.
type AccountTokenEvent struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TrialEndingEvent описывает подписку, у которой скоро заканчивается пробный период.
type TrialEndingEvent struct {
	SubscriptionID int64     `json:"subscription_id"`
	Email          string    `json:"email"`
	Plan           PlanType  `json:"plan"`
	TrialEnd       time.Time `json:"trial_end"`
}
