package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSONSuccess оборачивает данные в конверт {"data": ...}.
func WriteJSONSuccess(w http.ResponseWriter, log *slog.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{"data": data}); err != nil {
		log.Error("не удалось записать JSON-ответ", slog.String("error", err.Error()))
	}
}

// WriteJSONError оборачивает ошибку в конверт {"error": {"code": ..., "message": ...}}.
func WriteJSONError(w http.ResponseWriter, log *slog.Logger, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{"error": errorBody{Code: code, Message: message}}); err != nil {
		log.Error("не удалось записать JSON-ответ", slog.String("error", err.Error()))
	}
}
