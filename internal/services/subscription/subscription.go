// Package services содержит бизнес-логику жизненного цикла подписки:
// пробный период, смена тарифа, продление и отмена.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/streamflix/internal/models"
	"github.com/magabrotheeeer/streamflix/internal/storage"
)

var (
	// ErrSubscriptionNotFound — у аккаунта нет активной подписки с таким ID.
	ErrSubscriptionNotFound = errors.New("subscription not found")
	// ErrInvalidPlan — тарифа нет в прайсе.
	ErrInvalidPlan = errors.New("invalid subscription type")
	// ErrActiveSubscriptionExists — у аккаунта уже есть активная подписка.
	ErrActiveSubscriptionExists = errors.New("account already has an active subscription")
)

// SubscriptionRepository определяет методы хранилища, нужные сервису подписок.
type SubscriptionRepository interface {
	// CreateSubscription сохраняет подписку и возвращает её ID.
	CreateSubscription(ctx context.Context, sub *models.Subscription) (int64, error)
	// GetActiveSubscription возвращает активную подписку аккаунта.
	GetActiveSubscription(ctx context.Context, accountID int64) (*models.Subscription, error)
	// LockOwnedActiveSubscription читает и блокирует активную подписку владельца.
	LockOwnedActiveSubscription(ctx context.Context, subscriptionID, accountID int64) (*models.Subscription, error)
	// UpdateSubscription сохраняет изменения подписки.
	UpdateSubscription(ctx context.Context, sub *models.Subscription) error
}

// TxRunner выполняет функцию в транзакции.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics учитывает операции над подписками.
type Metrics interface {
	SubscriptionEvent(plan, action string)
}

type noopMetrics struct{}

func (noopMetrics) SubscriptionEvent(string, string) {}

// SubscriptionService управляет подпиской аккаунта.
type SubscriptionService struct {
	repo    SubscriptionRepository
	tx      TxRunner
	plans   models.Plans
	metrics Metrics
	log     *slog.Logger
	now     func() time.Time
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
// Прайс plans не меняется после создания сервиса.
func NewSubscriptionService(repo SubscriptionRepository, tx TxRunner, plans models.Plans, metrics Metrics, log *slog.Logger) *SubscriptionService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &SubscriptionService{
		repo:    repo,
		tx:      tx,
		plans:   plans,
		metrics: metrics,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ListPlans возвращает прайс, отсортированный по цене.
func (s *SubscriptionService) ListPlans() []models.Plan {
	return s.plans.List()
}

// GetActive возвращает активную подписку аккаунта.
func (s *SubscriptionService) GetActive(ctx context.Context, accountID int64) (*models.Subscription, error) {
	const op = "services.SubscriptionService.GetActive"
	sub, err := s.repo.GetActiveSubscription(ctx, accountID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrSubscriptionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// Create оформляет новую подписку с пробным периодом.
// Если у аккаунта уже есть активная подписка, возвращается ErrActiveSubscriptionExists.
func (s *SubscriptionService) Create(ctx context.Context, accountID int64, req models.CreateSubscriptionRequest) (*models.Subscription, error) {
	const op = "services.SubscriptionService.Create"
	plan, price, err := s.resolvePlan(req.SubscriptionType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sub := models.NewTrialSubscription(accountID, plan, strings.TrimSpace(req.SubscriptionDescription), price, s.now())
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		_, err := s.repo.GetActiveSubscription(ctx, accountID)
		switch {
		case err == nil:
			return ErrActiveSubscriptionExists
		case !errors.Is(err, storage.ErrNotFound):
			return err
		}

		id, err := s.repo.CreateSubscription(ctx, sub)
		if err != nil {
			// параллельное создание упирается в уникальный индекс
			if errors.Is(err, storage.ErrAlreadyExists) {
				return ErrActiveSubscriptionExists
			}
			return err
		}
		sub.ID = id
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("subscription created",
		slog.Int64("account_id", accountID),
		slog.Int64("subscription_id", sub.ID),
		slog.String("plan", string(plan)))
	s.metrics.SubscriptionEvent(string(plan), "create")
	return sub, nil
}

// Change переводит активную подписку на другой тариф и завершает пробный период.
func (s *SubscriptionService) Change(ctx context.Context, accountID, subscriptionID int64, req models.ChangeSubscriptionRequest) (*models.Subscription, error) {
	const op = "services.SubscriptionService.Change"
	plan, price, err := s.resolvePlan(req.NewSubscriptionType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sub, err := s.mutate(ctx, accountID, subscriptionID, func(sub *models.Subscription, now time.Time) {
		sub.ChangePlan(plan, strings.TrimSpace(req.NewDescription), price, now)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.SubscriptionEvent(string(plan), "change")
	return sub, nil
}

// Cancel отменяет активную подписку. Отменённую подписку изменить нельзя.
func (s *SubscriptionService) Cancel(ctx context.Context, accountID, subscriptionID int64) (*models.Subscription, error) {
	const op = "services.SubscriptionService.Cancel"
	sub, err := s.mutate(ctx, accountID, subscriptionID, func(sub *models.Subscription, now time.Time) {
		sub.Cancel(now)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.SubscriptionEvent(string(sub.Type), "cancel")
	return sub, nil
}

// Renew продлевает активную подписку на месяц от текущего момента.
func (s *SubscriptionService) Renew(ctx context.Context, accountID, subscriptionID int64) (*models.Subscription, error) {
	const op = "services.SubscriptionService.Renew"
	sub, err := s.mutate(ctx, accountID, subscriptionID, func(sub *models.Subscription, now time.Time) {
		sub.Renew(now)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.SubscriptionEvent(string(sub.Type), "renew")
	return sub, nil
}

// mutate перечитывает подписку под блокировкой, применяет fn и сохраняет результат.
func (s *SubscriptionService) mutate(ctx context.Context, accountID, subscriptionID int64, fn func(*models.Subscription, time.Time)) (*models.Subscription, error) {
	var result *models.Subscription
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		sub, err := s.repo.LockOwnedActiveSubscription(ctx, subscriptionID, accountID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrSubscriptionNotFound
			}
			return err
		}
		fn(sub, s.now())
		if err := s.repo.UpdateSubscription(ctx, sub); err != nil {
			return err
		}
		result = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("subscription updated",
		slog.Int64("account_id", accountID),
		slog.Int64("subscription_id", subscriptionID),
		slog.Bool("is_active", result.IsActive))
	return result, nil
}

func (s *SubscriptionService) resolvePlan(raw string) (models.PlanType, decimal.Decimal, error) {
	plan, err := models.ParsePlanType(raw)
	if err != nil {
		return "", decimal.Decimal{}, ErrInvalidPlan
	}
	price, ok := s.plans.Price(plan)
	if !ok {
		return "", decimal.Decimal{}, ErrInvalidPlan
	}
	return plan, price, nil
}
