package repository

import (
	"context"
	"database/sql"

	"github.com/magabrotheeeer/streamflix/internal/models"
)

const accountColumns = `id, email, password_hash, registration_date, last_login, is_active, is_verified,
			      failed_login_attempts, blocked_until, verification_token, verification_token_expire,
			      password_reset_token, password_reset_expire`

func scanAccount(row rowScanner) (*models.Account, error) {
	var a models.Account
	var lastLogin, blockedUntil, verificationExpire, resetExpire sql.NullTime
	var verificationToken, resetToken sql.NullString
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.RegistrationDate, &lastLogin,
		&a.IsActive, &a.IsVerified, &a.FailedLoginAttempts, &blockedUntil,
		&verificationToken, &verificationExpire, &resetToken, &resetExpire); err != nil {
		return nil, err
	}
	a.RegistrationDate = a.RegistrationDate.UTC()
	a.LastLogin = timePtr(lastLogin)
	a.BlockedUntil = timePtr(blockedUntil)
	a.VerificationToken = stringPtr(verificationToken)
	a.VerificationExpire = timePtr(verificationExpire)
	a.PasswordResetToken = stringPtr(resetToken)
	a.PasswordResetExpire = timePtr(resetExpire)
	return &a, nil
}

// CreateAccount сохраняет новый аккаунт и возвращает его ID.
// Занятый email — storage.ErrAlreadyExists.
func (s *Storage) CreateAccount(ctx context.Context, a *models.Account) (int64, error) {
	const op = "storage.CreateAccount"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	query := `INSERT INTO accounts (email, password_hash, registration_date, is_active, is_verified,
			      verification_token, verification_token_expire)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID int64
	if err := s.q(ctx).QueryRowContext(ctx, query,
		a.Email, a.PasswordHash, a.RegistrationDate, a.IsActive, a.IsVerified,
		nullString(a.VerificationToken), nullTime(a.VerificationExpire)).Scan(&newID); err != nil {
		return 0, mapError(op, err)
	}
	return newID, nil
}

// GetAccountByEmail возвращает аккаунт по email.
func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	const op = "storage.GetAccountByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE email = $1`
	a, err := scanAccount(s.q(ctx).QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, mapError(op, err)
	}
	return a, nil
}

// LockAccountByEmail возвращает аккаунт по email и блокирует строку до конца транзакции.
// Вызывать внутри RunInTx: без транзакции блокировка снимается сразу.
func (s *Storage) LockAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	const op = "storage.LockAccountByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE email = $1
			  FOR UPDATE`
	a, err := scanAccount(s.q(ctx).QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, mapError(op, err)
	}
	return a, nil
}

// GetAccount возвращает аккаунт по ID.
func (s *Storage) GetAccount(ctx context.Context, accountID int64) (*models.Account, error) {
	const op = "storage.GetAccount"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE id = $1`
	a, err := scanAccount(s.q(ctx).QueryRowContext(ctx, query, accountID))
	if err != nil {
		return nil, mapError(op, err)
	}
	return a, nil
}

// UpdateAccount сохраняет изменяемые поля аккаунта.
func (s *Storage) UpdateAccount(ctx context.Context, a *models.Account) error {
	const op = "storage.UpdateAccount"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE accounts
			  SET password_hash = $1, last_login = $2, is_active = $3, is_verified = $4,
			      failed_login_attempts = $5, blocked_until = $6,
			      verification_token = $7, verification_token_expire = $8,
			      password_reset_token = $9, password_reset_expire = $10
			  WHERE id = $11`
	res, err := s.q(ctx).ExecContext(ctx, query,
		a.PasswordHash, nullTime(a.LastLogin), a.IsActive, a.IsVerified,
		a.FailedLoginAttempts, nullTime(a.BlockedUntil),
		nullString(a.VerificationToken), nullTime(a.VerificationExpire),
		nullString(a.PasswordResetToken), nullTime(a.PasswordResetExpire), a.ID)
	if err != nil {
		return mapError(op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return mapError(op, sql.ErrNoRows)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
