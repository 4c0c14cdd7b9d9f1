package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/streamflix/internal/models"
)

const subscriptionColumns = `id, account_id, subscription_type, subscription_description, base_price,
			      start_date, end_date, is_active, is_trial_period, trial_period_end`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row rowScanner) (*models.Subscription, error) {
	var sub models.Subscription
	var trialEnd sql.NullTime
	if err := row.Scan(&sub.ID, &sub.AccountID, &sub.Type, &sub.Description, &sub.BasePrice,
		&sub.StartDate, &sub.EndDate, &sub.IsActive, &sub.IsTrialPeriod, &trialEnd); err != nil {
		return nil, err
	}
	sub.StartDate = sub.StartDate.UTC()
	sub.EndDate = sub.EndDate.UTC()
	sub.TrialPeriodEnd = timePtr(trialEnd)
	return &sub, nil
}

// CreateSubscription вставляет новую подписку и возвращает её ID.
// Если у аккаунта уже есть активная подписка, срабатывает частичный уникальный индекс
// и возвращается storage.ErrAlreadyExists.
func (s *Storage) CreateSubscription(ctx context.Context, sub *models.Subscription) (int64, error) {
	const op = "storage.CreateSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	query := `INSERT INTO subscriptions (account_id, subscription_type, subscription_description,
			      base_price, start_date, end_date, is_active, is_trial_period, trial_period_end)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`
	var newID int64
	err := s.q(ctx).QueryRowContext(ctx, query,
		sub.AccountID, sub.Type, sub.Description, sub.BasePrice, sub.StartDate, sub.EndDate,
		sub.IsActive, sub.IsTrialPeriod, nullTime(sub.TrialPeriodEnd)).Scan(&newID)
	if err != nil {
		return 0, mapError(op, err)
	}
	return newID, nil
}

// GetActiveSubscription возвращает активную подписку аккаунта.
func (s *Storage) GetActiveSubscription(ctx context.Context, accountID int64) (*models.Subscription, error) {
	const op = "storage.GetActiveSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE account_id = $1 AND is_active = true`
	sub, err := scanSubscription(s.q(ctx).QueryRowContext(ctx, query, accountID))
	if err != nil {
		return nil, mapError(op, err)
	}
	return sub, nil
}

// LockActiveSubscription читает активную подписку аккаунта с блокировкой строки
// до конца транзакции.
func (s *Storage) LockActiveSubscription(ctx context.Context, accountID int64) (*models.Subscription, error) {
	const op = "storage.LockActiveSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE account_id = $1 AND is_active = true
			  FOR UPDATE`
	sub, err := scanSubscription(s.q(ctx).QueryRowContext(ctx, query, accountID))
	if err != nil {
		return nil, mapError(op, err)
	}
	return sub, nil
}

// LockOwnedActiveSubscription читает активную подписку по ID с проверкой владельца
// и блокирует строку до конца транзакции. Чужая или отменённая подписка — storage.ErrNotFound.
func (s *Storage) LockOwnedActiveSubscription(ctx context.Context, subscriptionID, accountID int64) (*models.Subscription, error) {
	const op = "storage.LockOwnedActiveSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE id = $1 AND account_id = $2 AND is_active = true
			  FOR UPDATE`
	sub, err := scanSubscription(s.q(ctx).QueryRowContext(ctx, query, subscriptionID, accountID))
	if err != nil {
		return nil, mapError(op, err)
	}
	return sub, nil
}

// UpdateSubscription сохраняет изменяемые поля подписки.
func (s *Storage) UpdateSubscription(ctx context.Context, sub *models.Subscription) error {
	const op = "storage.UpdateSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE subscriptions
			  SET subscription_type = $1, subscription_description = $2, base_price = $3,
			      end_date = $4, is_active = $5, is_trial_period = $6, trial_period_end = $7
			  WHERE id = $8`
	res, err := s.q(ctx).ExecContext(ctx, query,
		sub.Type, sub.Description, sub.BasePrice, sub.EndDate, sub.IsActive,
		sub.IsTrialPeriod, nullTime(sub.TrialPeriodEnd), sub.ID)
	if err != nil {
		return mapError(op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return mapError(op, sql.ErrNoRows)
	}
	return nil
}

// FindTrialsEndingBetween находит активные подписки, у которых пробный период
// заканчивается в интервале [from, to).
func (s *Storage) FindTrialsEndingBetween(ctx context.Context, from, to time.Time) ([]*models.TrialEndingEvent, error) {
	const op = "storage.FindTrialsEndingBetween"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT s.id, a.email, s.subscription_type, s.trial_period_end
			  FROM subscriptions s
			  JOIN accounts a ON a.id = s.account_id
			  WHERE s.is_active = true
			    AND s.is_trial_period = true
			    AND s.trial_period_end >= $1
			    AND s.trial_period_end < $2
			  ORDER BY s.trial_period_end`
	rows, err := s.q(ctx).QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.TrialEndingEvent
	for rows.Next() {
		var ev models.TrialEndingEvent
		if err := rows.Scan(&ev.SubscriptionID, &ev.Email, &ev.Plan, &ev.TrialEnd); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ev.TrialEnd = ev.TrialEnd.UTC()
		result = append(result, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
