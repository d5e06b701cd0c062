package models

import (
	"time"

	"api_ledger/internal/custom_err"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddressLength — длина адреса кошелька, адрес неизменяем после создания.
const AddressLength = 16

type Wallet struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"userId" db:"user_id"`
	Address   string          `json:"address" db:"address"`
	Balance   decimal.Decimal `json:"balance" db:"balance"`
	Version   int64           `json:"-" db:"version"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// NewWallet создает кошелек с нулевым балансом. Один пользователь — один кошелек,
// уникальность обеспечивает ограничение в БД.
func NewWallet(userID uuid.UUID, address string) *Wallet {
	return &Wallet{
		ID:      uuid.New(),
		UserID:  userID,
		Address: address,
		Balance: decimal.Zero,
		Version: 1,
	}
}

// Deposit увеличивает баланс. Верхнего предела нет.
func (w *Wallet) Deposit(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	w.Balance = w.Balance.Add(amount)
	return nil
}

// Withdraw уменьшает баланс, не позволяя ему стать отрицательным.
func (w *Wallet) Withdraw(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if w.Balance.Cmp(amount) < 0 {
		return custom_err.ErrInsufficientFunds
	}
	w.Balance = w.Balance.Sub(amount)
	return nil
}

// ValidateAmount проверяет, что сумма положительная и имеет не больше
// четырех знаков после запятой — точность колонки NUMERIC(19,4).
func ValidateAmount(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return custom_err.ErrInvalidAmount
	}
	if amount.Exponent() < -4 {
		return custom_err.ErrInvalidAmount
	}
	return nil
}

// WalletState — состояние кошелька, возвращаемое наружу после операции.
type WalletState struct {
	Address   string          `json:"address"`
	Balance   decimal.Decimal `json:"balance"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func NewWalletState(w *Wallet) WalletState {
	return WalletState{
		Address:   w.Address,
		Balance:   w.Balance,
		UpdatedAt: w.UpdatedAt,
	}
}
