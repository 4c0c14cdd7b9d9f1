package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/streamflix/internal/models"
	"github.com/magabrotheeeer/streamflix/internal/storage"
)

func TestStorage_Accounts(t *testing.T) {
	st, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	token := "verify-token"
	expire := now.Add(24 * time.Hour)
	id, err := st.CreateAccount(ctx, &models.Account{
		Email:             "user@example.com",
		PasswordHash:      "hash",
		RegistrationDate:  now,
		IsActive:          true,
		VerificationToken:  &token,
		VerificationExpire: &expire,
	})
	require.NoError(t, err)

	_, err = st.CreateAccount(ctx, &models.Account{Email: "user@example.com", PasswordHash: "x", RegistrationDate: now})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	a, err := st.GetAccountByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, a.ID)
	assert.False(t, a.IsVerified)
	require.NotNil(t, a.VerificationToken)
	assert.Equal(t, token, *a.VerificationToken)
	assert.Nil(t, a.PasswordResetToken)

	a.IsVerified = true
	a.VerificationToken = nil
	a.VerificationExpire = nil
	a.FailedLoginAttempts = 3
	blocked := now.Add(15 * time.Minute)
	a.BlockedUntil = &blocked
	require.NoError(t, st.UpdateAccount(ctx, a))

	got, err := st.GetAccount(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)
	assert.Nil(t, got.VerificationToken)
	assert.Equal(t, 3, got.FailedLoginAttempts)
	require.NotNil(t, got.BlockedUntil)
	assert.Equal(t, blocked, *got.BlockedUntil)

	_, err = st.GetAccount(ctx, id+1)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
