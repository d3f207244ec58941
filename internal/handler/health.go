package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const healthCheckTimeout = 2 * time.Second

// Pinger проверяет доступность хранилища для /healthz
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck отвечает 200, если хранилище доступно, иначе 503.
func HealthCheck(store Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			logger.Error("health check failed", "error", err)
			respondWithError(w, http.StatusServiceUnavailable, "database unavailable", logger)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"}, logger)
	}
}
