package service

import (
	"api_ledger/internal/custom_err"
	"api_ledger/internal/models"
	"api_ledger/internal/repository"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// WalletServicer описывает операции над одним кошельком.
type WalletServicer interface {
	CreateWallet(ctx context.Context, userID uuid.UUID) (*models.WalletState, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.WalletState, error)
	GetByAddress(ctx context.Context, address string) (*models.WalletState, error)
	Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*models.WalletState, error)
	Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*models.WalletState, error)
}

var _ WalletServicer = (*WalletService)(nil)

// WalletService выполняет пополнение и снятие под той же дисциплиной
// блокировок, что и переводы: FOR UPDATE на время всей мутации.
//
// В отличие от переводов, пополнение и снятие не дедуплицируются по ключу
// идемпотентности: повтор применяется как новая операция. Предполагается,
// что дедупликацию делает платежный шлюз выше по стеку.
type WalletService struct {
	wallets   repository.Wallet
	txManager TxManager
}

func NewWalletService(wallets repository.Wallet, txManager TxManager) *WalletService {
	return &WalletService{
		wallets:   wallets,
		txManager: txManager,
	}
}

// CreateWallet создает новый кошелек с нулевым балансом.
// Вызывается подсистемой регистрации; один пользователь — один кошелек.
func (s *WalletService) CreateWallet(ctx context.Context, userID uuid.UUID) (*models.WalletState, error) {
	const op = "service.CreateWallet"

	if userID == uuid.Nil {
		return nil, custom_err.ErrMissingCaller
	}

	address, err := models.GenerateAddress()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	wallet := models.NewWallet(userID, address)

	err = s.txManager.Run(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.wallets.CreateTx(ctx, tx, wallet)
	})
	if err != nil {
		if errors.Is(err, custom_err.ErrWalletExists) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	state := models.NewWalletState(wallet)
	return &state, nil
}

func (s *WalletService) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.WalletState, error) {
	const op = "service.GetByUserID"

	wallet, err := s.wallets.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, custom_err.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	state := models.NewWalletState(wallet)
	return &state, nil
}

func (s *WalletService) GetByAddress(ctx context.Context, address string) (*models.WalletState, error) {
	const op = "service.GetByAddress"

	wallet, err := s.wallets.GetByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, custom_err.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	state := models.NewWalletState(wallet)
	return &state, nil
}

// Deposit зачисляет средства. Верхнего предела нет.
func (s *WalletService) Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*models.WalletState, error) {
	return s.mutate(ctx, userID, amount, (*models.Wallet).Deposit)
}

// Withdraw списывает средства, если их достаточно.
func (s *WalletService) Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*models.WalletState, error) {
	return s.mutate(ctx, userID, amount, (*models.Wallet).Withdraw)
}

// mutate — общая часть: блокировка кошелька, мутация доменным методом,
// сохранение с проверкой версии, все в одной транзакции.
func (s *WalletService) mutate(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, apply func(*models.Wallet, decimal.Decimal) error) (*models.WalletState, error) {
	const op = "service.mutate"

	if userID == uuid.Nil {
		return nil, custom_err.ErrMissingCaller
	}
	if err := models.ValidateAmount(amount); err != nil {
		return nil, err
	}

	var wallet *models.Wallet
	err := s.txManager.Run(ctx, func(ctx context.Context, tx pgx.Tx) error {
		w, err := s.wallets.GetByUserIDForUpdateTx(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := apply(w, amount); err != nil {
			return err
		}
		if err := s.wallets.UpdateBalanceTx(ctx, tx, w); err != nil {
			return err
		}
		wallet = w
		return nil
	})
	if err != nil {
		if isKnown(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	state := models.NewWalletState(wallet)
	return &state, nil
}
