package repository

import (
	"context"

	"api_ledger/internal/models"

	"github.com/jackc/pgx/v5"
)

type Transaction interface {
	GetByIdempotencyKey(ctx context.Context, key string) (*models.Transaction, error)
	CreateTx(ctx context.Context, tx pgx.Tx, t *models.Transaction) error
	ListByAddress(ctx context.Context, address string, limit, offset int) ([]*models.Transaction, error)
}
