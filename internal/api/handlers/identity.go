package handlers

import (
	"net/http"

	"github.com/google/uuid"
)

// CallerHeader выставляется вышестоящим слоем аутентификации.
// Запрос без разрешенной идентичности не обслуживается — никаких
// подстановок пользователя по умолчанию.
const CallerHeader = "X-User-ID"

func callerID(r *http.Request) (uuid.UUID, bool) {
	raw := r.Header.Get(CallerHeader)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
