// Package models содержит доменные структуры сервиса: аккаунт, подписку,
// реферальное приглашение и производную от него скидку, а также DTO
// для приёма данных из JSON-запросов.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// BillingPeriod — срок, на который продлевается подписка (в месяцах).
	BillingPeriod = 1
	// TrialDays — длительность пробного периода новой подписки.
	TrialDays = 7
)

// Subscription представляет подписку аккаунта на тариф.
// Подписка никогда не удаляется физически: отмена выставляет IsActive=false.
type Subscription struct {
	ID             int64           `json:"id"`
	AccountID      int64           `json:"account_id"`
	Type           PlanType        `json:"subscription_type"`
	Description    string          `json:"subscription_description"`
	BasePrice      decimal.Decimal `json:"base_price"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	IsActive       bool            `json:"is_active"`
	IsTrialPeriod  bool            `json:"is_trial_period"`
	TrialPeriodEnd *time.Time      `json:"trial_period_end,omitempty"`
}

// NewTrialSubscription создаёт активную подписку с пробным периодом.
func NewTrialSubscription(accountID int64, plan PlanType, description string, price decimal.Decimal, now time.Time) *Subscription {
	now = now.UTC()
	trialEnd := now.AddDate(0, 0, TrialDays)
	return &Subscription{
		AccountID:      accountID,
		Type:           plan,
		Description:    description,
		BasePrice:      price,
		StartDate:      now,
		EndDate:        now.AddDate(0, BillingPeriod, 0),
		IsActive:       true,
		IsTrialPeriod:  true,
		TrialPeriodEnd: &trialEnd,
	}
}

// ChangePlan переводит подписку на другой тариф.
// Смена тарифа безвозвратно завершает пробный период.
func (s *Subscription) ChangePlan(plan PlanType, description string, price decimal.Decimal, now time.Time) {
	s.Type = plan
	s.Description = description
	s.BasePrice = price
	s.EndDate = now.UTC().AddDate(0, BillingPeriod, 0)
	s.EndTrial()
}

// Renew продлевает подписку на месяц от now. Если пробный период ещё идёт,
// он конвертируется в платный без изменения цены.
func (s *Subscription) Renew(now time.Time) {
	now = now.UTC()
	if s.IsTrialPeriod && s.TrialPeriodEnd != nil && s.TrialPeriodEnd.After(now) {
		s.EndTrial()
	}
	s.EndDate = now.AddDate(0, BillingPeriod, 0)
}

// Cancel деактивирует подписку. Дальнейшие изменения невозможны.
func (s *Subscription) Cancel(now time.Time) {
	s.IsActive = false
	s.EndDate = now.UTC()
}

// EndTrial снимает признак пробного периода.
func (s *Subscription) EndTrial() {
	s.IsTrialPeriod = false
	s.TrialPeriodEnd = nil
}

// ApplyDiscount уменьшает базовую цену на amount, но не ниже нуля.
func (s *Subscription) ApplyDiscount(amount decimal.Decimal) {
	price := s.BasePrice.Sub(amount)
	if price.IsNegative() {
		price = decimal.Zero
	}
	s.BasePrice = price
}

// CreateSubscriptionRequest используется для приёма данных из JSON-запроса
// на создание подписки. Цена клиентом не передаётся: она берётся из прайса.
type CreateSubscriptionRequest struct {
	SubscriptionType        string `json:"subscription_type" validate:"required"`
	SubscriptionDescription string `json:"subscription_description" validate:"max=255"`
}

// ChangeSubscriptionRequest используется для смены тарифа.
type ChangeSubscriptionRequest struct {
	NewSubscriptionType string `json:"new_subscription_type" validate:"required"`
	NewDescription      string `json:"new_description" validate:"max=255"`
}
