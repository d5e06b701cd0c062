package repository

import (
	"context"

	"api_ledger/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Wallet interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	GetByAddress(ctx context.Context, address string) (*models.Wallet, error)
	GetByUserIDForUpdateTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*models.Wallet, error)
	GetByAddressForUpdateTx(ctx context.Context, tx pgx.Tx, address string) (*models.Wallet, error)
	UpdateBalanceTx(ctx context.Context, tx pgx.Tx, wallet *models.Wallet) error
	CreateTx(ctx context.Context, tx pgx.Tx, wallet *models.Wallet) error
}
