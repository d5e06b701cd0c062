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
)

// Причины деловых отказов. Попадают в error_message записи FAILED
// и возвращаются вызывающему как есть.
const (
	ReasonSelfTransfer        = "Cannot transfer to same wallet"
	ReasonInsufficientBalance = "Insufficient balance"
)

// TxManager исполняет функцию внутри одной транзакции хранилища.
type TxManager interface {
	Run(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// TransferServicer описывает, что умеет движок переводов.
type TransferServicer interface {
	Transfer(ctx context.Context, callerID uuid.UUID, req models.TransferRequest) (*models.TransferOutcome, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.TransferOutcome, error)
}

var _ TransferServicer = (*TransferService)(nil)

type TransferService struct {
	wallets      repository.Wallet
	transactions repository.Transaction
	txManager    TxManager
}

func NewTransferService(wallets repository.Wallet, transactions repository.Transaction, txManager TxManager) *TransferService {
	return &TransferService{
		wallets:      wallets,
		transactions: transactions,
		txManager:    txManager,
	}
}

// Transfer переводит деньги между двумя кошельками.
//
// Порядок шагов:
//  1. проверка идемпотентности: повтор с тем же ключом возвращает
//     сохраненный результат без повторного применения;
//  2. разрешение и блокировка обоих кошельков (FOR UPDATE) в каноническом
//     порядке адресов;
//  3. валидация: получатель существует, адреса различаются, баланса хватает;
//  4. списание и зачисление плюс запись SUCCESS — один атомарный коммит;
//  5. деловой отказ тоже коммитится записью FAILED под тем же ключом,
//     балансы при этом не меняются.
//
// Инфраструктурные сбои (кошелек не найден, таймаут блокировки, конфликт
// ключа) возвращаются типизированной ошибкой и записи не оставляют.
func (s *TransferService) Transfer(ctx context.Context, callerID uuid.UUID, req models.TransferRequest) (*models.TransferOutcome, error) {
	const op = "service.Transfer"

	// Идентификатор вызывающего обязан прийти снаружи уже разрешенным,
	// никаких подстановок по умолчанию.
	if callerID == uuid.Nil {
		return nil, custom_err.ErrMissingCaller
	}
	if req.IdempotencyKey == "" {
		return nil, custom_err.ErrMissingIdempotencyKey
	}
	if err := models.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}

	existing, err := s.transactions.GetByIdempotencyKey(ctx, req.IdempotencyKey)
	if err == nil {
		return models.NewTransferOutcome(existing), nil
	}
	if !errors.Is(err, custom_err.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var result *models.Transaction
	err = s.txManager.Run(ctx, func(ctx context.Context, tx pgx.Tx) error {
		// Адрес отправителя нужен до захвата блокировок, чтобы выбрать
		// порядок. Обычное чтение: кошельки не удаляются, а актуальный
		// баланс будет прочитан уже под блокировкой.
		caller, err := s.wallets.GetByUserID(ctx, callerID)
		if err != nil {
			return err
		}

		from, to, err := s.lockPair(ctx, tx, caller.Address, req.ToAddress)
		if err != nil {
			return err
		}

		if from.Address == to.Address {
			result = models.NewTransaction(from.Address, req.ToAddress, req.Amount, req.IdempotencyKey)
			result.MarkFailed(ReasonSelfTransfer)
			return s.transactions.CreateTx(ctx, tx, result)
		}

		if from.Balance.Cmp(req.Amount) < 0 {
			result = models.NewTransaction(from.Address, to.Address, req.Amount, req.IdempotencyKey)
			result.MarkFailed(ReasonInsufficientBalance)
			return s.transactions.CreateTx(ctx, tx, result)
		}

		if err := from.Withdraw(req.Amount); err != nil {
			return err
		}
		if err := to.Deposit(req.Amount); err != nil {
			return err
		}

		if err := s.wallets.UpdateBalanceTx(ctx, tx, from); err != nil {
			return err
		}
		if err := s.wallets.UpdateBalanceTx(ctx, tx, to); err != nil {
			return err
		}

		result = models.NewTransaction(from.Address, to.Address, req.Amount, req.IdempotencyKey)
		result.MarkSuccess()
		return s.transactions.CreateTx(ctx, tx, result)
	})
	if err != nil {
		if isKnown(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return models.NewTransferOutcome(result), nil
}

// lockPair захватывает блокировки двух кошельков в каноническом порядке.
// Перевод самому себе блокирует одну строку один раз.
func (s *TransferService) lockPair(ctx context.Context, tx pgx.Tx, fromAddress, toAddress string) (from, to *models.Wallet, err error) {
	if fromAddress == toAddress {
		w, err := s.wallets.GetByAddressForUpdateTx(ctx, tx, fromAddress)
		if err != nil {
			return nil, nil, err
		}
		return w, w, nil
	}

	first, second := lockOrder(fromAddress, toAddress)

	firstWallet, err := s.wallets.GetByAddressForUpdateTx(ctx, tx, first)
	if err != nil {
		return nil, nil, err
	}
	secondWallet, err := s.wallets.GetByAddressForUpdateTx(ctx, tx, second)
	if err != nil {
		return nil, nil, err
	}

	if firstWallet.Address == fromAddress {
		return firstWallet, secondWallet, nil
	}
	return secondWallet, firstWallet, nil
}

// ListByUser возвращает историю переводов кошелька пользователя,
// отправленных и полученных, от новых к старым.
func (s *TransferService) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.TransferOutcome, error) {
	const op = "service.ListByUser"

	wallet, err := s.wallets.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, custom_err.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	transactions, err := s.transactions.ListByAddress(ctx, wallet.Address, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	outcomes := make([]*models.TransferOutcome, 0, len(transactions))
	for _, t := range transactions {
		outcomes = append(outcomes, models.NewTransferOutcome(t))
	}
	return outcomes, nil
}

// isKnown отличает ошибки из таксономии от неожиданных инфраструктурных.
func isKnown(err error) bool {
	return errors.Is(err, custom_err.ErrNotFound) ||
		errors.Is(err, custom_err.ErrLockTimeout) ||
		errors.Is(err, custom_err.ErrDuplicateRequest) ||
		errors.Is(err, custom_err.ErrConflict) ||
		errors.Is(err, custom_err.ErrInvalidAmount) ||
		errors.Is(err, custom_err.ErrInsufficientFunds)
}
