package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/UserService/internal/config"
	"github.com/GoArmGo/UserService/internal/handler"
	"github.com/GoArmGo/UserService/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 30 * time.Second

// NewRouter собирает chi-роутер со всеми маршрутами сервиса
func NewRouter(cfg *config.Config, userUseCase usecase.UserUseCase, store handler.Pinger, logger *slog.Logger) http.Handler {
	userHandler := handler.NewUserHandler(userUseCase, cfg.MaxUploadBytes, logger)

	r := chi.NewRouter()
	r.Use(handler.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/healthz", handler.HealthCheck(store, logger))
	userHandler.Routes(r)

	return r
}

// runServer запускает HTTP сервер и останавливает его при отмене ctx
func runServer(
	ctx context.Context,
	cfg *config.Config,
	userUseCase usecase.UserUseCase,
	store handler.Pinger,
	logger *slog.Logger,
) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           NewRouter(cfg, userUseCase, store, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server started", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received, stopping http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("http server stopped")
	return nil
}
