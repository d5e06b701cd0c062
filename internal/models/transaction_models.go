package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	StatusPending TransactionStatus = "PENDING"
	StatusSuccess TransactionStatus = "SUCCESS"
	StatusFailed  TransactionStatus = "FAILED"
)

// Transaction — неизменяемая запись о попытке перевода.
// Статус и причина отказа скрыты: FAILED без причины (и причина без FAILED)
// невозможны, менять их можно только через MarkSuccess/MarkFailed,
// и только пока запись находится в статусе PENDING.
type Transaction struct {
	ID             uuid.UUID
	FromAddress    string
	ToAddress      string
	Amount         decimal.Decimal
	IdempotencyKey string
	CreatedAt      time.Time

	status       TransactionStatus
	errorMessage string
}

// NewTransaction создает запись в переходном статусе PENDING.
// В хранилище попадают только терминальные записи.
func NewTransaction(fromAddress, toAddress string, amount decimal.Decimal, idempotencyKey string) *Transaction {
	return &Transaction{
		ID:             uuid.New(),
		FromAddress:    fromAddress,
		ToAddress:      toAddress,
		Amount:         amount,
		IdempotencyKey: idempotencyKey,
		status:         StatusPending,
	}
}

// RestoreTransaction восстанавливает запись из строки хранилища.
func RestoreTransaction(
	id uuid.UUID,
	fromAddress, toAddress string,
	amount decimal.Decimal,
	status TransactionStatus,
	idempotencyKey, errorMessage string,
	createdAt time.Time,
) *Transaction {
	return &Transaction{
		ID:             id,
		FromAddress:    fromAddress,
		ToAddress:      toAddress,
		Amount:         amount,
		IdempotencyKey: idempotencyKey,
		CreatedAt:      createdAt,
		status:         status,
		errorMessage:   errorMessage,
	}
}

func (t *Transaction) MarkSuccess() {
	if t.status != StatusPending {
		return
	}
	t.status = StatusSuccess
}

func (t *Transaction) MarkFailed(reason string) {
	if t.status != StatusPending {
		return
	}
	t.status = StatusFailed
	t.errorMessage = reason
}

func (t *Transaction) Status() TransactionStatus { return t.status }

func (t *Transaction) ErrorMessage() string { return t.errorMessage }

// Terminal сообщает, можно ли сохранять запись.
func (t *Transaction) Terminal() bool {
	return t.status == StatusSuccess || t.status == StatusFailed
}

// TransferOutcome — результат перевода, отдаваемый наружу.
// Для повторного запроса с тем же ключом идемпотентности возвращается
// ровно тот же результат, что и в первый раз.
type TransferOutcome struct {
	ID             uuid.UUID         `json:"id"`
	FromAddress    string            `json:"fromAddress"`
	ToAddress      string            `json:"toAddress"`
	Amount         decimal.Decimal   `json:"amount"`
	Status         TransactionStatus `json:"status"`
	Timestamp      time.Time         `json:"timestamp"`
	IdempotencyKey string            `json:"idempotencyKey"`
	ErrorMessage   string            `json:"errorMessage,omitempty"`
}

func NewTransferOutcome(t *Transaction) *TransferOutcome {
	return &TransferOutcome{
		ID:             t.ID,
		FromAddress:    t.FromAddress,
		ToAddress:      t.ToAddress,
		Amount:         t.Amount,
		Status:         t.status,
		Timestamp:      t.CreatedAt,
		IdempotencyKey: t.IdempotencyKey,
		ErrorMessage:   t.errorMessage,
	}
}
