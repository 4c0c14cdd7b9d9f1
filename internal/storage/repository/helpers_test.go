package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/streamflix/internal/migrations"
	"github.com/magabrotheeeer/streamflix/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(connStr)
	require.NoError(t, err)

	root, err := filepath.Abs("../../..")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, filepath.Join(root, "migrations")))

	return storage, func() {
		_ = storage.DB.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
}

// TestDataFactory создаёт тестовые данные через методы Storage.
type TestDataFactory struct {
	storage *Storage
	now     time.Time
}

// NewTestDataFactory создаёт новую фабрику тестовых данных.
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{
		storage: storage,
		now:     time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

// CreateAccount создаёт подтверждённый аккаунт.
func (f *TestDataFactory) CreateAccount(t *testing.T, email string) int64 {
	t.Helper()
	id, err := f.storage.CreateAccount(context.Background(), &models.Account{
		Email:            email,
		PasswordHash:     "hash",
		RegistrationDate: f.now,
		IsActive:         true,
		IsVerified:       true,
	})
	require.NoError(t, err)
	return id
}

// CreateSubscription создаёт активную пробную подписку.
func (f *TestDataFactory) CreateSubscription(t *testing.T, accountID int64, plan models.PlanType, price string) int64 {
	t.Helper()
	sub := models.NewTrialSubscription(accountID, plan, "test", decimal.RequireFromString(price), f.now)
	id, err := f.storage.CreateSubscription(context.Background(), sub)
	require.NoError(t, err)
	return id
}

// CreateReferral создаёт приглашение в статусе ожидания.
func (f *TestDataFactory) CreateReferral(t *testing.T, referrerID int64, code string) int64 {
	t.Helper()
	id, err := f.storage.CreateReferral(context.Background(), models.NewReferral(referrerID, code, f.now))
	require.NoError(t, err)
	return id
}
