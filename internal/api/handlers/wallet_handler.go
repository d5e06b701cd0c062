package handlers

import (
	"api_ledger/internal/api/middlew"
	"api_ledger/internal/custom_err"
	"api_ledger/internal/models"
	"api_ledger/internal/service"
	"api_ledger/pkg/response"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

type WalletHandler struct {
	service service.WalletServicer
}

func NewWalletHandler(service service.WalletServicer) *WalletHandler {
	return &WalletHandler{
		service: service,
	}
}

// CreateWallet — граница с подсистемой регистрации: кошелек создается
// один раз при регистрации пользователя, с нулевым балансом.
func (h *WalletHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	const op = "handler.CreateWallet"
	log := middlew.GetLogger(r.Context())

	caller, ok := callerID(r)
	if !ok {
		log.Warn("запрос без идентичности вызывающего", slog.String("op", op))
		response.WriteJSONError(w, log, http.StatusUnauthorized, "unauthorized", "Missing or invalid caller identity")
		return
	}

	state, err := h.service.CreateWallet(r.Context(), caller)
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrWalletExists):
			log.Info("кошелек уже существует", slog.String("op", op), slog.String("caller", caller.String()))
			response.WriteJSONError(w, log, http.StatusConflict, "wallet_exists", "Wallet already exists for this user")
		default:
			log.Error("ошибка создания кошелька", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "Failed to create wallet")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusCreated, state)
}

func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	const op = "handler.GetWallet"
	log := middlew.GetLogger(r.Context())

	caller, ok := callerID(r)
	if !ok {
		log.Warn("запрос без идентичности вызывающего", slog.String("op", op))
		response.WriteJSONError(w, log, http.StatusUnauthorized, "unauthorized", "Missing or invalid caller identity")
		return
	}

	state, err := h.service.GetByUserID(r.Context(), caller)
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrNotFound):
			log.Info("кошелек не найден", slog.String("op", op), slog.String("caller", caller.String()))
			response.WriteJSONError(w, log, http.StatusNotFound, "not_found", "Wallet not found")
		default:
			log.Error("ошибка получения кошелька", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "Failed to retrieve wallet")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, state)
}

// UpdateBalance обслуживает пополнение и снятие по полю operationType.
func (h *WalletHandler) UpdateBalance(w http.ResponseWriter, r *http.Request) {
	const op = "handler.UpdateBalance"
	log := middlew.GetLogger(r.Context())

	caller, ok := callerID(r)
	if !ok {
		log.Warn("запрос без идентичности вызывающего", slog.String("op", op))
		response.WriteJSONError(w, log, http.StatusUnauthorized, "unauthorized", "Missing or invalid caller identity")
		return
	}

	defer r.Body.Close()

	var req models.WalletOperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("ошибка декодирования JSON", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}

	if !req.OperationType.IsValid() {
		log.Warn("невалидный тип операции", slog.String("op", op), slog.Any("req", req))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_field", "Invalid operationType")
		return
	}

	var (
		state *models.WalletState
		err   error
	)
	if req.OperationType == models.WithdrawOperation {
		state, err = h.service.Withdraw(r.Context(), caller, req.Amount)
	} else {
		state, err = h.service.Deposit(r.Context(), caller, req.Amount)
	}

	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrNotFound):
			log.Info("кошелек не найден", slog.String("op", op), slog.String("caller", caller.String()))
			response.WriteJSONError(w, log, http.StatusNotFound, "not_found", "Wallet not found")
		case errors.Is(err, custom_err.ErrInvalidAmount):
			log.Warn("невалидная сумма операции", slog.String("op", op), slog.Any("req", req))
			response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_field", "Amount must be positive with at most 4 decimal places")
		case errors.Is(err, custom_err.ErrInsufficientFunds):
			log.Warn("недостаточно средств", slog.String("op", op), slog.Any("req", req))
			response.WriteJSONError(w, log, http.StatusBadRequest, "insufficient_funds", "Insufficient funds in the wallet")
		case errors.Is(err, custom_err.ErrLockTimeout):
			log.Warn("таймаут блокировки кошелька", slog.String("op", op))
			w.Header().Set("Retry-After", "1")
			response.WriteJSONError(w, log, http.StatusServiceUnavailable, "lock_timeout", "Wallet is busy, retry the request")
		default:
			log.Error("не удалось выполнить операцию", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "An internal error occurred")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, state)
}
