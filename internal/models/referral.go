package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Статусы приглашения, которые видит клиент.
const (
	ReferralStatusNotFound = "Referral not found"
	ReferralStatusPending  = "Pending acceptance"
	ReferralStatusAccepted = "Accepted"
)

// Referral — реферальное приглашение.
//
// Жизненный цикл: ожидает принятия (IsActive=true) -> принято (IsActive=false,
// ReferredAccountID заполнен). Скидка применяется не более одного раза,
// признак IsDiscountApplied назад не сбрасывается.
type Referral struct {
	ID                int64      `json:"referral_id"`
	ReferrerAccountID int64      `json:"referrer_account_id"`
	ReferredAccountID *int64     `json:"referred_account_id,omitempty"`
	InvitationCode    string     `json:"invitation_code"`
	InvitationDate    time.Time  `json:"invitation_date"`
	AcceptDate        *time.Time `json:"accept_date,omitempty"`
	IsActive          bool       `json:"is_active"`
	IsDiscountApplied bool       `json:"is_discount_applied"`
	DiscountStartDate *time.Time `json:"discount_start_date,omitempty"`
	DiscountEndDate   *time.Time `json:"discount_end_date,omitempty"`
}

// NewReferral создаёт приглашение в статусе ожидания.
func NewReferral(referrerID int64, code string, now time.Time) *Referral {
	return &Referral{
		ReferrerAccountID: referrerID,
		InvitationCode:    code,
		InvitationDate:    now.UTC(),
		IsActive:          true,
	}
}

// Accept фиксирует принятие приглашения аккаунтом referredID.
func (r *Referral) Accept(referredID int64, now time.Time) {
	now = now.UTC()
	r.ReferredAccountID = &referredID
	r.AcceptDate = &now
	r.IsActive = false
}

// MarkDiscountApplied закрывает шлюз применения скидки и открывает окно скидки на месяц.
func (r *Referral) MarkDiscountApplied(now time.Time) {
	start := now.UTC()
	end := start.AddDate(0, BillingPeriod, 0)
	r.IsDiscountApplied = true
	r.DiscountStartDate = &start
	r.DiscountEndDate = &end
}

// Status возвращает человекочитаемый статус приглашения.
func (r *Referral) Status() string {
	if r == nil {
		return ReferralStatusNotFound
	}
	if r.IsActive {
		return ReferralStatusPending
	}
	return ReferralStatusAccepted
}

// Discount — проекция скидки, полученной по реферальной программе.
// Отдельной таблицы нет: данные берутся из полей Referral.
type Discount struct {
	AccountID         int64           `json:"account_id"`
	ReferralID        int64           `json:"referral_id"`
	DiscountAmount    decimal.Decimal `json:"discount_amount"`
	DiscountStartDate *time.Time      `json:"discount_start_date"`
	DiscountEndDate   *time.Time      `json:"discount_end_date"`
}

// AcceptInvitationRequest — тело запроса на принятие приглашения.
type AcceptInvitationRequest struct {
	InvitationCode string `json:"invitation_code" validate:"required,max=64"`
}

// ReferralAcceptedEvent публикуется в очередь уведомлений после принятия приглашения.
type ReferralAcceptedEvent struct {
	ReferralID      int64           `json:"referral_id"`
	ReferrerEmail   string          `json:"referrer_email"`
	ReferredEmail   string          `json:"referred_email"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	DiscountApplied bool            `json:"discount_applied"`
}
