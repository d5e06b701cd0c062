package postgres

import (
	"context"
	"testing"
	"time"

	"api_ledger/internal/custom_err"
	"api_ledger/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertTransaction(t *testing.T, pool *pgxpool.Pool, from, to, key string, createdAt time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO transactions (id, from_address, to_address, amount, status, idempotency_key, created_at)
         VALUES ($1, $2, $3, '10.0000', 'SUCCESS', $4, $5)`,
		id, from, to, key, createdAt)
	require.NoError(t, err)
	return id
}

func TestTransactionRepository_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	pool, cleanup := setupRepoTest(t)
	defer cleanup()

	repo := NewTransactionRepository(pool)
	manager := NewTxManager(pool, time.Second)
	ctx := context.Background()

	amount := decimal.RequireFromString("75.2500")

	record := models.NewTransaction("aaaaaaaaaaaaaaaa", "bbbbbbbbbbbbbbbb", amount, "key-1")
	record.MarkSuccess()

	err := manager.Run(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return repo.CreateTx(ctx, tx, record)
	})
	require.NoError(t, err)
	assert.False(t, record.CreatedAt.IsZero())

	t.Run("GetByIdempotencyKey", func(t *testing.T) {
		got, err := repo.GetByIdempotencyKey(ctx, "key-1")
		require.NoError(t, err)
		assert.Equal(t, record.ID, got.ID)
		assert.Equal(t, models.StatusSuccess, got.Status())
		assert.True(t, got.Amount.Equal(amount))
		assert.Empty(t, got.ErrorMessage())

		_, err = repo.GetByIdempotencyKey(ctx, "no-such-key")
		assert.ErrorIs(t, err, custom_err.ErrNotFound)
	})

	t.Run("Duplicate Idempotency Key", func(t *testing.T) {
		dup := models.NewTransaction("aaaaaaaaaaaaaaaa", "bbbbbbbbbbbbbbbb", amount, "key-1")
		dup.MarkSuccess()

		err := manager.Run(ctx, func(ctx context.Context, tx pgx.Tx) error {
			return repo.CreateTx(ctx, tx, dup)
		})
		assert.ErrorIs(t, err, custom_err.ErrDuplicateRequest)
	})

	t.Run("Failed Record Keeps Reason", func(t *testing.T) {
		failed := models.NewTransaction("aaaaaaaaaaaaaaaa", "bbbbbbbbbbbbbbbb", amount, "key-2")
		failed.MarkFailed("Insufficient balance")

		err := manager.Run(ctx, func(ctx context.Context, tx pgx.Tx) error {
			return repo.CreateTx(ctx, tx, failed)
		})
		require.NoError(t, err)

		got, err := repo.GetByIdempotencyKey(ctx, "key-2")
		require.NoError(t, err)
		assert.Equal(t, models.StatusFailed, got.Status())
		assert.Equal(t, "Insufficient balance", got.ErrorMessage())
	})
}

func TestTransactionRepository_ListByAddress(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	pool, cleanup := setupRepoTest(t)
	defer cleanup()

	repo := NewTransactionRepository(pool)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour).UTC()
	first := insertTransaction(t, pool, "aaaaaaaaaaaaaaaa", "bbbbbbbbbbbbbbbb", "list-1", base)
	second := insertTransaction(t, pool, "cccccccccccccccc", "aaaaaaaaaaaaaaaa", "list-2", base.Add(time.Minute))
	third := insertTransaction(t, pool, "aaaaaaaaaaaaaaaa", "aaaaaaaaaaaaaaaa", "list-3", base.Add(2*time.Minute))
	insertTransaction(t, pool, "cccccccccccccccc", "bbbbbbbbbbbbbbbb", "list-4", base.Add(3*time.Minute))

	t.Run("Both Directions, Newest First", func(t *testing.T) {
		got, err := repo.ListByAddress(ctx, "aaaaaaaaaaaaaaaa", 10, 0)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, third, got[0].ID)
		assert.Equal(t, second, got[1].ID)
		assert.Equal(t, first, got[2].ID)
	})

	t.Run("Limit And Offset", func(t *testing.T) {
		got, err := repo.ListByAddress(ctx, "aaaaaaaaaaaaaaaa", 1, 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, second, got[0].ID)
	})

	t.Run("No Matches", func(t *testing.T) {
		got, err := repo.ListByAddress(ctx, "ffffffffffffffff", 10, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
