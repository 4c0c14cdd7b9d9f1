// Package services содержит реферальную программу: приглашения, их принятие
// и однократное применение скидки к подпискам обоих участников.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
	"github.com/magabrotheeeer/streamflix/internal/models"
	"github.com/magabrotheeeer/streamflix/internal/storage"
)

var (
	// ErrInvalidCode — приглашения с таким кодом нет.
	ErrInvalidCode = errors.New("invalid invitation code")
	// ErrAlreadyAccepted — приглашение уже принято.
	ErrAlreadyAccepted = errors.New("invitation already accepted")
	// ErrSelfReferral — нельзя принять собственное приглашение.
	ErrSelfReferral = errors.New("cannot accept own invitation")
	// ErrDiscountNotFound — у аккаунта нет реферальной скидки.
	ErrDiscountNotFound = errors.New("discount not found")
)

// codeAttempts — сколько раз генерировать код при коллизии.
const codeAttempts = 3

// ReferralRepository определяет методы хранилища приглашений.
type ReferralRepository interface {
	CreateReferral(ctx context.Context, r *models.Referral) (int64, error)
	GetReferralByCode(ctx context.Context, code string) (*models.Referral, error)
	LockReferralByCode(ctx context.Context, code string) (*models.Referral, error)
	UpdateReferral(ctx context.Context, r *models.Referral) error
	GetLatestDiscountedReferral(ctx context.Context, accountID int64) (*models.Referral, error)
}

// SubscriptionRepository — доступ к подпискам участников для применения скидки.
type SubscriptionRepository interface {
	LockActiveSubscription(ctx context.Context, accountID int64) (*models.Subscription, error)
	UpdateSubscription(ctx context.Context, sub *models.Subscription) error
}

// AccountRepository нужен, чтобы адресовать уведомление участникам.
type AccountRepository interface {
	GetAccount(ctx context.Context, accountID int64) (*models.Account, error)
}

// TxRunner выполняет функцию в транзакции.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Publisher отправляет уведомления в очередь.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Metrics учитывает операции с приглашениями.
type Metrics interface {
	ReferralEvent(action string)
}

// ReferralService управляет приглашениями и скидками.
type ReferralService struct {
	referrals     ReferralRepository
	subscriptions SubscriptionRepository
	accounts      AccountRepository
	tx            TxRunner
	publisher     Publisher
	metrics       Metrics
	discount      decimal.Decimal
	routingKey    string
	log           *slog.Logger
	now           func() time.Time
	newCode       func() string
}

// Deps — зависимости ReferralService.
type Deps struct {
	Referrals     ReferralRepository
	Subscriptions SubscriptionRepository
	Accounts      AccountRepository
	Tx            TxRunner
	Publisher     Publisher
	Metrics       Metrics
}

// NewReferralService создает новый экземпляр ReferralService.
// discount — фиксированная сумма скидки для каждого участника,
// routingKey — ключ маршрутизации уведомления о принятии приглашения.
func NewReferralService(deps Deps, discount decimal.Decimal, routingKey string, log *slog.Logger) *ReferralService {
	s := &ReferralService{
		referrals:     deps.Referrals,
		subscriptions: deps.Subscriptions,
		accounts:      deps.Accounts,
		tx:            deps.Tx,
		publisher:     deps.Publisher,
		metrics:       deps.Metrics,
		discount:      discount,
		routingKey:    routingKey,
		log:           log,
		now:           func() time.Time { return time.Now().UTC() },
		newCode:       newInvitationCode,
	}
	if s.metrics == nil {
		s.metrics = noopMetrics{}
	}
	return s
}

type noopMetrics struct{}

func (noopMetrics) ReferralEvent(string) {}

// newInvitationCode возвращает 32 шестнадцатеричных символа.
func newInvitationCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// DiscountAmount возвращает размер реферальной скидки.
func (s *ReferralService) DiscountAmount() decimal.Decimal {
	return s.discount
}

// CreateInvitation создаёт приглашение от имени referrerID.
func (s *ReferralService) CreateInvitation(ctx context.Context, referrerID int64) (*models.Referral, error) {
	const op = "services.ReferralService.CreateInvitation"

	var lastErr error
	for range codeAttempts {
		r := models.NewReferral(referrerID, s.newCode(), s.now())
		id, err := s.referrals.CreateReferral(ctx, r)
		if err == nil {
			r.ID = id
			s.log.Info("invitation created",
				slog.Int64("referral_id", id),
				slog.Int64("referrer_account_id", referrerID))
			s.metrics.ReferralEvent("create")
			return r, nil
		}
		if !errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%s: %w", op, lastErr)
}

// AcceptInvitation принимает приглашение от имени referredID.
//
// Принятие, уменьшение цены обеих активных подписок и отметка о применённой
// скидке выполняются в одной транзакции. Строка приглашения блокируется,
// поэтому из двух одновременных принятий одного кода успешно только одно.
// Участник без активной подписки скидку не получает, это не ошибка.
func (s *ReferralService) AcceptInvitation(ctx context.Context, code string, referredID int64) (*models.Referral, error) {
	const op = "services.ReferralService.AcceptInvitation"
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCode)
	}

	var (
		accepted *models.Referral
		applied  bool
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		r, err := s.referrals.LockReferralByCode(ctx, code)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrInvalidCode
			}
			return err
		}
		if !r.IsActive {
			return ErrAlreadyAccepted
		}
		if r.ReferrerAccountID == referredID {
			return ErrSelfReferral
		}

		now := s.now()
		r.Accept(referredID, now)
		if !r.IsDiscountApplied {
			if err := s.discountParticipants(ctx, r.ReferrerAccountID, referredID); err != nil {
				return err
			}
			r.MarkDiscountApplied(now)
			applied = true
		}
		if err := s.referrals.UpdateReferral(ctx, r); err != nil {
			return err
		}
		accepted = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("invitation accepted",
		slog.Int64("referral_id", accepted.ID),
		slog.Int64("referred_account_id", referredID),
		slog.Bool("discount_applied", applied))
	s.metrics.ReferralEvent("accept")
	s.notifyAccepted(ctx, accepted, applied)
	return accepted, nil
}

// discountParticipants уменьшает цену активных подписок участников.
// Подписки блокируются в порядке возрастания ID аккаунта, чтобы встречные
// принятия не взаимоблокировались.
func (s *ReferralService) discountParticipants(ctx context.Context, accountIDs ...int64) error {
	ids := slices.Clone(accountIDs)
	slices.Sort(ids)
	for _, accountID := range ids {
		sub, err := s.subscriptions.LockActiveSubscription(ctx, accountID)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		sub.ApplyDiscount(s.discount)
		if err := s.subscriptions.UpdateSubscription(ctx, sub); err != nil {
			return err
		}
	}
	return nil
}

func (s *ReferralService) notifyAccepted(ctx context.Context, r *models.Referral, applied bool) {
	if s.publisher == nil || s.accounts == nil || r.ReferredAccountID == nil {
		return
	}
	referrer, err := s.accounts.GetAccount(ctx, r.ReferrerAccountID)
	if err != nil {
		s.log.Warn("failed to load referrer for notification", sl.Err(err))
		return
	}
	referred, err := s.accounts.GetAccount(ctx, *r.ReferredAccountID)
	if err != nil {
		s.log.Warn("failed to load referred account for notification", sl.Err(err))
		return
	}
	event := models.ReferralAcceptedEvent{
		ReferralID:      r.ID,
		ReferrerEmail:   referrer.Email,
		ReferredEmail:   referred.Email,
		DiscountAmount:  s.discount,
		DiscountApplied: applied,
	}
	if err := s.publisher.Publish(ctx, s.routingKey, event); err != nil {
		s.log.Warn("failed to publish referral notification", sl.Err(err))
	}
}

// GetReferralStatus возвращает статус приглашения. Неизвестный код — не ошибка,
// а статус models.ReferralStatusNotFound.
func (s *ReferralService) GetReferralStatus(ctx context.Context, code string) (string, error) {
	const op = "services.ReferralService.GetReferralStatus"
	r, err := s.referrals.GetReferralByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.ReferralStatusNotFound, nil
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return r.Status(), nil
}

// GetDiscountInfo возвращает последнюю по дате окончания реферальную скидку аккаунта.
func (s *ReferralService) GetDiscountInfo(ctx context.Context, accountID int64) (*models.Discount, error) {
	const op = "services.ReferralService.GetDiscountInfo"
	r, err := s.referrals.GetLatestDiscountedReferral(ctx, accountID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrDiscountNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.Discount{
		AccountID:         accountID,
		ReferralID:        r.ID,
		DiscountAmount:    s.discount,
		DiscountStartDate: r.DiscountStartDate,
		DiscountEndDate:   r.DiscountEndDate,
	}, nil
}
