package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"api_ledger/internal/custom_err"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// 55P03 = lock_not_available: lock_timeout истек при ожидании FOR UPDATE.
const lockNotAvailableCode = "55P03"

// TxManager выполняет функцию внутри одной транзакции БД: откат при ошибке,
// коммит при успехе. Ожидание блокировок ограничено lockTimeout, чтобы
// зависшая конкурирующая транзакция не держала воркер бесконечно.
type TxManager struct {
	db          *pgxpool.Pool
	lockTimeout time.Duration
}

func NewTxManager(db *pgxpool.Pool, lockTimeout time.Duration) *TxManager {
	return &TxManager{db: db, lockTimeout: lockTimeout}
}

func (m *TxManager) Run(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	tx, err := m.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("не удалось начать транзакцию: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// SET LOCAL действует только до конца этой транзакции
	timeoutMs := m.lockTimeout.Milliseconds()
	if timeoutMs > 0 {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", timeoutMs)); err != nil {
			return fmt.Errorf("не удалось установить lock_timeout: %w", err)
		}
	}

	if err := fn(ctx, tx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == lockNotAvailableCode {
			return fmt.Errorf("%w: %s", custom_err.ErrLockTimeout, pgErr.Message)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка коммита транзакции: %w", err)
	}
	return nil
}
