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
	"strconv"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type TransferHandler struct {
	service service.TransferServicer
}

func NewTransferHandler(service service.TransferServicer) *TransferHandler {
	return &TransferHandler{
		service: service,
	}
}

func (h *TransferHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	const op = "handler.Transfer"
	log := middlew.GetLogger(r.Context())

	caller, ok := callerID(r)
	if !ok {
		log.Warn("запрос без идентичности вызывающего", slog.String("op", op))
		response.WriteJSONError(w, log, http.StatusUnauthorized, "unauthorized", "Missing or invalid caller identity")
		return
	}

	defer r.Body.Close()

	var req models.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("ошибка декодирования JSON", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}

	if len(req.ToAddress) != models.AddressLength {
		log.Warn("невалидный адрес получателя", slog.String("op", op), slog.String("toAddress", req.ToAddress))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_field", "toAddress must be 16 characters")
		return
	}
	if req.IdempotencyKey == "" {
		log.Warn("не задан ключ идемпотентности", slog.String("op", op))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_field", "idempotencyKey is required")
		return
	}

	outcome, err := h.service.Transfer(r.Context(), caller, req)
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrNotFound):
			log.Info("кошелек не найден", slog.String("op", op), slog.String("toAddress", req.ToAddress))
			response.WriteJSONError(w, log, http.StatusNotFound, "not_found", "Wallet not found")
		case errors.Is(err, custom_err.ErrInvalidAmount):
			log.Warn("невалидная сумма перевода", slog.String("op", op))
			response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_field", "Amount must be positive with at most 4 decimal places")
		case errors.Is(err, custom_err.ErrDuplicateRequest):
			log.Warn("конфликт ключа идемпотентности", slog.String("op", op), slog.String("idempotencyKey", req.IdempotencyKey))
			response.WriteJSONError(w, log, http.StatusConflict, "duplicate_request", "Idempotency key already in use")
		case errors.Is(err, custom_err.ErrLockTimeout):
			log.Warn("таймаут блокировки кошелька", slog.String("op", op))
			w.Header().Set("Retry-After", "1")
			response.WriteJSONError(w, log, http.StatusServiceUnavailable, "lock_timeout", "Wallet is busy, retry the request")
		default:
			log.Error("ошибка выполнения перевода", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "An internal error occurred")
		}
		return
	}

	// Деловой отказ — корректируемое клиентом состояние, не ошибка сервера.
	status := http.StatusOK
	if outcome.Status == models.StatusFailed {
		status = http.StatusUnprocessableEntity
	}
	response.WriteJSONSuccess(w, log, status, outcome)
}

func (h *TransferHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	const op = "handler.ListTransactions"
	log := middlew.GetLogger(r.Context())

	caller, ok := callerID(r)
	if !ok {
		log.Warn("запрос без идентичности вызывающего", slog.String("op", op))
		response.WriteJSONError(w, log, http.StatusUnauthorized, "unauthorized", "Missing or invalid caller identity")
		return
	}

	limit := queryInt(r, "limit", defaultHistoryLimit)
	if limit <= 0 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	outcomes, err := h.service.ListByUser(r.Context(), caller, limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrNotFound):
			log.Info("кошелек не найден", slog.String("op", op), slog.String("caller", caller.String()))
			response.WriteJSONError(w, log, http.StatusNotFound, "not_found", "Wallet not found")
		default:
			log.Error("ошибка получения истории", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "Failed to list transactions")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, outcomes)
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
