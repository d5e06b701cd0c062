package models

import "github.com/shopspring/decimal"

type OperationType string

const (
	DepositOperation  OperationType = "DEPOSIT"
	WithdrawOperation OperationType = "WITHDRAW"
)

func (ot OperationType) IsValid() bool {
	switch ot {
	case DepositOperation, WithdrawOperation:
		return true
	}
	return false
}

type WalletOperationRequest struct {
	OperationType OperationType   `json:"operationType"`
	Amount        decimal.Decimal `json:"amount"`
}

type TransferRequest struct {
	ToAddress      string          `json:"toAddress"`
	Amount         decimal.Decimal `json:"amount"`
	IdempotencyKey string          `json:"idempotencyKey"`
}
