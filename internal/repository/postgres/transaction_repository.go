package postgres

import (
	"api_ledger/internal/custom_err"
	"api_ledger/internal/models"
	"api_ledger/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var _ repository.Transaction = (*TransactionRepository)(nil)

type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) GetByIdempotencyKey(ctx context.Context, key string) (*models.Transaction, error) {
	const op = "repository.GetByIdempotencyKey"
	t, err := scanTransaction(r.db.QueryRow(ctx, repository.GetTransactionByIdempotencyKeyQuery, key))
	if err != nil {
		if errors.Is(err, custom_err.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// CreateTx сохраняет терминальную запись. Уникальный индекс по ключу
// идемпотентности ловит гонку двух одновременных запросов с одним ключом.
func (r *TransactionRepository) CreateTx(ctx context.Context, tx pgx.Tx, t *models.Transaction) error {
	var errorMessage *string
	if t.ErrorMessage() != "" {
		msg := t.ErrorMessage()
		errorMessage = &msg
	}

	err := tx.QueryRow(ctx, repository.CreateTransactionQuery,
		t.ID, t.FromAddress, t.ToAddress, t.Amount, string(t.Status()),
		t.IdempotencyKey, errorMessage,
	).Scan(&t.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return custom_err.ErrDuplicateRequest
		}
		return fmt.Errorf("ошибка сохранения записи о переводе: %w", err)
	}
	return nil
}

func (r *TransactionRepository) ListByAddress(ctx context.Context, address string, limit, offset int) ([]*models.Transaction, error) {
	const op = "repository.ListByAddress"
	rows, err := r.db.Query(ctx, repository.ListTransactionsByAddressQuery, address, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	transactions := make([]*models.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return transactions, nil
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var (
		id             uuid.UUID
		fromAddress    string
		toAddress      string
		amount         decimal.Decimal
		status         string
		idempotencyKey string
		errorMessage   *string
		createdAt      time.Time
	)
	err := row.Scan(&id, &fromAddress, &toAddress, &amount, &status,
		&idempotencyKey, &errorMessage, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, err
	}

	reason := ""
	if errorMessage != nil {
		reason = *errorMessage
	}
	return models.RestoreTransaction(
		id, fromAddress, toAddress, amount,
		models.TransactionStatus(status), idempotencyKey, reason, createdAt,
	), nil
}
