package postgres

import (
	"api_ledger/internal/custom_err"
	"api_ledger/internal/models"
	"api_ledger/internal/repository"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ repository.Wallet = (*WalletRepository)(nil)

type WalletRepository struct {
	db *pgxpool.Pool
}

func NewWalletRepository(db *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{db: db}
}

// row — общий знаменатель pool.QueryRow и tx.QueryRow.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func scanWallet(ctx context.Context, q rowQuerier, query string, arg any) (*models.Wallet, error) {
	var wallet models.Wallet
	err := q.QueryRow(ctx, query, arg).Scan(
		&wallet.ID, &wallet.UserID, &wallet.Address, &wallet.Balance,
		&wallet.Version, &wallet.CreatedAt, &wallet.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

func (r *WalletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	const op = "repository.GetByUserID"
	wallet, err := scanWallet(ctx, r.db, repository.GetWalletByUserIDQuery, userID)
	if err != nil {
		if errors.Is(err, custom_err.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return wallet, nil
}

func (r *WalletRepository) GetByAddress(ctx context.Context, address string) (*models.Wallet, error) {
	const op = "repository.GetByAddress"
	wallet, err := scanWallet(ctx, r.db, repository.GetWalletByAddressQuery, address)
	if err != nil {
		if errors.Is(err, custom_err.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return wallet, nil
}

// GetByUserIDForUpdateTx читает кошелек под эксклюзивной блокировкой строки.
// Блокировка держится до конца транзакции tx.
func (r *WalletRepository) GetByUserIDForUpdateTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*models.Wallet, error) {
	wallet, err := scanWallet(ctx, tx, repository.GetWalletByUserIDForUpdateQuery, userID)
	if err != nil {
		if errors.Is(err, custom_err.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("ошибка блокировки кошелька пользователя: %w", err)
	}
	return wallet, nil
}

func (r *WalletRepository) GetByAddressForUpdateTx(ctx context.Context, tx pgx.Tx, address string) (*models.Wallet, error) {
	wallet, err := scanWallet(ctx, tx, repository.GetWalletByAddressForUpdateQuery, address)
	if err != nil {
		if errors.Is(err, custom_err.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("ошибка блокировки кошелька по адресу: %w", err)
	}
	return wallet, nil
}

// UpdateBalanceTx сохраняет баланс со страховочной проверкой версии.
// Все мутации идут через FOR UPDATE, так что несовпадение версии означает
// нарушение дисциплины блокировок, а не обычную гонку.
func (r *WalletRepository) UpdateBalanceTx(ctx context.Context, tx pgx.Tx, wallet *models.Wallet) error {
	err := tx.QueryRow(ctx, repository.UpdateWalletBalanceQuery,
		wallet.Balance, wallet.Version, wallet.ID,
	).Scan(&wallet.Version, &wallet.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return custom_err.ErrConflict
		}
		return fmt.Errorf("ошибка обновления баланса: %w", err)
	}
	return nil
}

func (r *WalletRepository) CreateTx(ctx context.Context, tx pgx.Tx, wallet *models.Wallet) error {
	err := tx.QueryRow(ctx, repository.CreateWalletQuery,
		wallet.ID, wallet.UserID, wallet.Address, wallet.Balance, wallet.Version,
	).Scan(&wallet.CreatedAt, &wallet.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return custom_err.ErrWalletExists
		}
		return fmt.Errorf("ошибка создания кошелька: %w", err)
	}
	return nil
}
