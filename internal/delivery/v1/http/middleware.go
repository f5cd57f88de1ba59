package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/DRSN-tech/film-indexer/pkg/e"
	"github.com/DRSN-tech/film-indexer/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// requestLogger пишет по одной структурированной записи на запрос.
func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	sl := log.Slog()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			sl.LogAttrs(r.Context(), slog.LevelInfo, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

// recoverer отвечает 500 в формате сервиса вместо обрыва соединения при панике.
func recoverer(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Errorf(e.ErrInternalServerError, "panic recovered: %v", rec)
					WriteError(w, e.ErrInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func otelMiddleware(serviceName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, serviceName)
	}
}
