package di

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/GoArmGo/UserService/internal/adapter/storage/s3"
	"github.com/GoArmGo/UserService/internal/app"
	"github.com/GoArmGo/UserService/internal/auth"
	"github.com/GoArmGo/UserService/internal/config"
	"github.com/GoArmGo/UserService/internal/core/ports"
	"github.com/GoArmGo/UserService/internal/database/client"
	"github.com/GoArmGo/UserService/internal/database/memory"
	"github.com/GoArmGo/UserService/internal/database/migrations"
	"github.com/GoArmGo/UserService/internal/database/postgres"
	"github.com/GoArmGo/UserService/internal/database/storage"
	"github.com/GoArmGo/UserService/internal/logger"
	"github.com/GoArmGo/UserService/internal/rabbitmq"
	"github.com/GoArmGo/UserService/internal/usecase"
)

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
// В режиме migrate поднимаются только конфигурация и логгер.
func BuildApp(ctx context.Context, mode string) (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stdout,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	if mode == app.ModeMigrate {
		slogger.Info("migrate mode, skipping storage, S3 and RabbitMQ initialization")
		return app.NewApp(cfg, slogger, nil, nil, nil), nil
	}

	var closers []io.Closer
	fail := func(err error) (*app.App, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
		return nil, err
	}

	// 2. Хранилище пользователей
	userStorage, dbCloser, err := buildUserStorage(ctx, cfg, slogger)
	if err != nil {
		return fail(err)
	}
	if dbCloser != nil {
		closers = append(closers, dbCloser)
	}

	// 3. Объектное хранилище
	fileStorage, err := s3.NewClient(ctx, cfg, slogger)
	if err != nil {
		return fail(fmt.Errorf("init object storage: %w", err))
	}

	// 4. RabbitMQ необязателен
	var (
		publisher ports.UserEventPublisher
		consumer  ports.UserEventConsumer
	)
	if cfg.EventsEnabled() {
		rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, rabbitMQClient)
		publisher = rabbitMQClient
		consumer = rabbitMQClient
	} else {
		slogger.Info("RABBITMQ_URL is not set, registration events are disabled")
	}

	// 5. Бизнес-логика
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL)
	userUseCase := usecase.NewUserUseCase(userStorage, fileStorage, jwtManager, publisher, slogger)

	application := app.NewApp(cfg, slogger, userStorage, userUseCase, consumer, closers...)

	slogger.Info("all dependencies initialized", "storage_backend", cfg.StorageBackend)
	return application, nil
}

// buildUserStorage выбирает реализацию по STORAGE_BACKEND.
// sqlx и GORM работают поверх одного пула соединений.
func buildUserStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.UserStorage, io.Closer, error) {
	if cfg.StorageBackend == config.StorageBackendMemory {
		logger.Warn("using in-memory storage, data will not survive a restart")
		return memory.NewUserStorage(), nil, nil
	}

	dbClient, err := client.NewClient(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(cfg.DSN(), logger); err != nil {
			_ = dbClient.Close()
			return nil, nil, err
		}
	}

	switch cfg.StorageBackend {
	case config.StorageBackendGORM:
		gdb, err := postgres.OpenGorm(dbClient.DB.DB, logger)
		if err != nil {
			_ = dbClient.Close()
			return nil, nil, err
		}
		return postgres.NewGormUserStorage(gdb, logger), dbClient, nil
	default:
		return storage.NewUserStorage(dbClient.DB, logger), dbClient, nil
	}
}
