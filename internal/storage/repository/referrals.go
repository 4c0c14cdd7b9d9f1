package repository

import (
	"context"
	"database/sql"

	"github.com/magabrotheeeer/streamflix/internal/models"
)

const referralColumns = `id, referrer_account_id, referred_account_id, invitation_code, invitation_date,
			      accept_date, is_active, is_discount_applied, discount_start_date, discount_end_date`

func scanReferral(row rowScanner) (*models.Referral, error) {
	var r models.Referral
	var referred sql.NullInt64
	var acceptDate, discountStart, discountEnd sql.NullTime
	if err := row.Scan(&r.ID, &r.ReferrerAccountID, &referred, &r.InvitationCode, &r.InvitationDate,
		&acceptDate, &r.IsActive, &r.IsDiscountApplied, &discountStart, &discountEnd); err != nil {
		return nil, err
	}
	if referred.Valid {
		id := referred.Int64
		r.ReferredAccountID = &id
	}
	r.InvitationDate = r.InvitationDate.UTC()
	r.AcceptDate = timePtr(acceptDate)
	r.DiscountStartDate = timePtr(discountStart)
	r.DiscountEndDate = timePtr(discountEnd)
	return &r, nil
}

// CreateReferral сохраняет новое приглашение и возвращает его ID.
// Повтор кода приглашения — storage.ErrAlreadyExists.
func (s *Storage) CreateReferral(ctx context.Context, r *models.Referral) (int64, error) {
	const op = "storage.CreateReferral"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	query := `INSERT INTO referrals (referrer_account_id, invitation_code, invitation_date,
			      is_active, is_discount_applied)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int64
	if err := s.q(ctx).QueryRowContext(ctx, query,
		r.ReferrerAccountID, r.InvitationCode, r.InvitationDate, r.IsActive,
		r.IsDiscountApplied).Scan(&newID); err != nil {
		return 0, mapError(op, err)
	}
	return newID, nil
}

// GetReferralByCode возвращает приглашение по коду.
func (s *Storage) GetReferralByCode(ctx context.Context, code string) (*models.Referral, error) {
	const op = "storage.GetReferralByCode"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + referralColumns + `
			  FROM referrals
			  WHERE invitation_code = $1`
	r, err := scanReferral(s.q(ctx).QueryRowContext(ctx, query, code))
	if err != nil {
		return nil, mapError(op, err)
	}
	return r, nil
}

// LockReferralByCode читает приглашение по коду и блокирует строку до конца транзакции.
// Конкурентные принятия одного кода выстраиваются в очередь на этой блокировке.
func (s *Storage) LockReferralByCode(ctx context.Context, code string) (*models.Referral, error) {
	const op = "storage.LockReferralByCode"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + referralColumns + `
			  FROM referrals
			  WHERE invitation_code = $1
			  FOR UPDATE`
	r, err := scanReferral(s.q(ctx).QueryRowContext(ctx, query, code))
	if err != nil {
		return nil, mapError(op, err)
	}
	return r, nil
}

// UpdateReferral сохраняет состояние приглашения после принятия.
func (s *Storage) UpdateReferral(ctx context.Context, r *models.Referral) error {
	const op = "storage.UpdateReferral"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	var referred sql.NullInt64
	if r.ReferredAccountID != nil {
		referred = sql.NullInt64{Int64: *r.ReferredAccountID, Valid: true}
	}
	query := `UPDATE referrals
			  SET referred_account_id = $1, accept_date = $2, is_active = $3,
			      is_discount_applied = $4, discount_start_date = $5, discount_end_date = $6
			  WHERE id = $7`
	res, err := s.q(ctx).ExecContext(ctx, query,
		referred, nullTime(r.AcceptDate), r.IsActive, r.IsDiscountApplied,
		nullTime(r.DiscountStartDate), nullTime(r.DiscountEndDate), r.ID)
	if err != nil {
		return mapError(op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return mapError(op, sql.ErrNoRows)
	}
	return nil
}

// GetLatestDiscountedReferral возвращает приглашение с применённой скидкой,
// где аккаунт был пригласившим или приглашённым, с самой поздней датой окончания скидки.
func (s *Storage) GetLatestDiscountedReferral(ctx context.Context, accountID int64) (*models.Referral, error) {
	const op = "storage.GetLatestDiscountedReferral"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + referralColumns + `
			  FROM referrals
			  WHERE (referrer_account_id = $1 OR referred_account_id = $1)
			    AND is_discount_applied = true
			  ORDER BY discount_end_date DESC NULLS LAST, id DESC
			  LIMIT 1`
	r, err := scanReferral(s.q(ctx).QueryRowContext(ctx, query, accountID))
	if err != nil {
		return nil, mapError(op, err)
	}
	return r, nil
}
