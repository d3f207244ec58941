package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/UserService/internal/core/ports"
	"github.com/GoArmGo/UserService/internal/domain"
	"github.com/GoArmGo/UserService/internal/messaging/payloads"
	"github.com/GoArmGo/UserService/internal/usecase"
)

// runWorker потребляет события регистрации и проверяет загруженные изображения
func runWorker(
	ctx context.Context,
	userUseCase usecase.UserUseCase,
	consumer ports.UserEventConsumer,
	logger *slog.Logger,
) error {
	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	if err := consumer.StartConsumingUserRegistered(workerCtx, registrationHandler(userUseCase, logger)); err != nil {
		return fmt.Errorf("start RabbitMQ consumer: %w", err)
	}

	logger.Info("worker started, waiting for messages")
	<-ctx.Done()

	logger.Info("shutdown signal received, stopping worker")
	return nil
}

func registrationHandler(userUseCase usecase.UserUseCase, logger *slog.Logger) func(context.Context, payloads.UserRegisteredPayload) error {
	return func(ctx context.Context, payload payloads.UserRegisteredPayload) error {
		logger.Info("processing user registered event", "user_id", payload.UserID, "image_key", payload.ImageKey)

		err := userUseCase.VerifyRegistrationImage(ctx, payload)
		if errors.Is(err, domain.ErrImageMissing) {
			// повтор не поможет: объект уже не появится
			logger.Error("registration image is missing, dropping event", "user_id", payload.UserID, "image_key", payload.ImageKey)
			return nil
		}
		if err != nil {
			logger.Error("failed to verify registration image", "user_id", payload.UserID, "error", err)
			return err
		}
		return nil
	}
}
