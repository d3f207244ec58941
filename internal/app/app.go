package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/UserService/internal/config"
	"github.com/GoArmGo/UserService/internal/core/ports"
	"github.com/GoArmGo/UserService/internal/database/migrations"
	"github.com/GoArmGo/UserService/internal/usecase"
)

// Режимы запуска процесса (флаг -mode)
const (
	ModeServer  = "server"
	ModeWorker  = "worker"
	ModeMigrate = "migrate"
)

type App struct {
	Config            *config.Config
	logger            *slog.Logger
	userStorage       ports.UserStorage
	userUseCase       usecase.UserUseCase
	userEventConsumer ports.UserEventConsumer // nil без RABBITMQ_URL
	closers           []io.Closer
}

func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	userStorage ports.UserStorage,
	userUseCase usecase.UserUseCase,
	userEventConsumer ports.UserEventConsumer,
	closers ...io.Closer,
) *App {
	return &App{
		Config:            cfg,
		logger:            logger,
		userStorage:       userStorage,
		userUseCase:       userUseCase,
		userEventConsumer: userEventConsumer,
		closers:           closers,
	}
}

// LoggerIns возвращает основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает выбранный режим и блокируется до его завершения.
// SIGINT/SIGTERM отменяют контекст; ресурсы закрываются в любом случае.
func (a *App) Run(ctx context.Context, mode string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	defer func() {
		if err := a.Shutdown(); err != nil {
			a.logger.Error("shutdown finished with errors", "error", err)
		}
	}()

	a.logger.Info("running application", "mode", mode)

	switch mode {
	case ModeServer:
		return runServer(ctx, a.Config, a.userUseCase, a.userStorage, a.logger)
	case ModeWorker:
		if a.userEventConsumer == nil {
			return fmt.Errorf("worker mode requires RABBITMQ_URL")
		}
		return runWorker(ctx, a.userUseCase, a.userEventConsumer, a.logger)
	case ModeMigrate:
		if a.Config.StorageBackend == config.StorageBackendMemory {
			return fmt.Errorf("migrate mode requires a database backend, got %q", a.Config.StorageBackend)
		}
		return migrations.Up(a.Config.DSN(), a.logger)
	default:
		return fmt.Errorf("unknown mode %q (use server, worker or migrate)", mode)
	}
}

// Shutdown закрывает все ресурсы приложения в обратном порядке создания
func (a *App) Shutdown() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil

	if len(errs) == 0 {
		a.logger.Info("application resources released")
	}
	return errors.Join(errs...)
}
