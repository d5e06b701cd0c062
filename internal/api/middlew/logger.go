package middlew

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

type ctxKey struct{}

// WithLogger кладет в контекст запроса логгер с request_id
// и пишет строку о завершении каждого запроса.
func WithLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLog := log.With(slog.String("request_id", middleware.GetReqID(r.Context())))

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			ctx := context.WithValue(r.Context(), ctxKey{}, reqLog)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLog.Info("запрос обработан",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// GetLogger достает логгер запроса из контекста.
func GetLogger(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return log
	}
	return slog.Default()
}
