package custom_err

import "errors"

var (
	ErrNotFound          = errors.New("запись не найдена")
	ErrInsufficientFunds = errors.New("недостаточно средств на счете")
	ErrInvalidAmount     = errors.New("сумма операции должна быть положительной")
	ErrDuplicateRequest  = errors.New("повторяющийся запрос")
	ErrConflict          = errors.New("конфликт версий записи")
	ErrLockTimeout       = errors.New("не удалось получить блокировку за отведенное время")
	ErrWalletExists      = errors.New("кошелек для пользователя уже существует")

	ErrMissingCaller         = errors.New("не задан идентификатор вызывающего пользователя")
	ErrMissingIdempotencyKey = errors.New("не задан ключ идемпотентности")
)
