// Package services содержит планировщик уведомлений об окончании пробного периода.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/streamflix/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
	"github.com/magabrotheeeer/streamflix/internal/models"
)

// SubscriptionRepository ищет подписки с заканчивающимся пробным периодом.
type SubscriptionRepository interface {
	FindTrialsEndingBetween(ctx context.Context, from, to time.Time) ([]*models.TrialEndingEvent, error)
}

// Publisher отправляет уведомление в очередь.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// SchedulerService периодически публикует уведомления о конце пробного периода.
type SchedulerService struct {
	repo      SubscriptionRepository
	publisher Publisher
	interval  time.Duration
	window    time.Duration
	log       *slog.Logger
	now       func() time.Time

	mu sync.Mutex
	// scannedUntil — правая граница последнего успешно просмотренного окна.
	scannedUntil time.Time
}

// NewSchedulerService создает новый экземпляр SchedulerService.
// Каждые interval ищутся пробные периоды, которые закончатся в ближайшие window.
func NewSchedulerService(repo SubscriptionRepository, publisher Publisher, interval, window time.Duration, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo:      repo,
		publisher: publisher,
		interval:  interval,
		window:    window,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Run выполняет проверку сразу и затем по таймеру, пока не отменён ctx.
func (s *SchedulerService) Run(ctx context.Context) {
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *SchedulerService) runOnce(ctx context.Context) {
	if _, err := s.NotifyTrialsEnding(ctx); err != nil {
		s.log.Error("trial check failed", sl.Err(err))
	}
}

// NotifyTrialsEnding публикует по сообщению на каждую подписку, чей пробный период
// заканчивается в [from, now+window), где from — конец предыдущего успешно
// просмотренного окна (но не раньше now). Соседние запуски просматривают
// непересекающиеся отрезки, поэтому одна подписка получает одно уведомление.
// Возвращает число опубликованных сообщений.
// Ошибка публикации одного сообщения не останавливает остальные.
func (s *SchedulerService) NotifyTrialsEnding(ctx context.Context) (int, error) {
	const op = "services.NotifyTrialsEnding"
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	from, to := now, now.Add(s.window)
	if s.scannedUntil.After(from) {
		from = s.scannedUntil
	}
	if !from.Before(to) {
		return 0, nil
	}
	s.log.Info("looking for trials ending soon",
		slog.Time("from", from), slog.Time("to", to))

	events, err := s.repo.FindTrialsEndingBetween(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.scannedUntil = to
	if len(events) == 0 {
		s.log.Info("no trials ending soon")
		return 0, nil
	}

	s.log.Info("found trials ending soon", slog.Int("count", len(events)))
	sent := 0
	for _, ev := range events {
		if err := s.publisher.Publish(ctx, rabbitmq.RoutingTrial, ev); err != nil {
			s.log.Error("failed to publish message",
				slog.Int64("subscription_id", ev.SubscriptionID), sl.Err(err))
			continue
		}
		sent++
	}
	return sent, nil
}
