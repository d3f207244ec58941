package ports

import (
	"context"

	"github.com/GoArmGo/UserService/internal/messaging/payloads"
)

// UserEventPublisher определяет методы для публикации событий о пользователях
// Этот интерфейс используется usecase после успешной регистрации
type UserEventPublisher interface {
	PublishUserRegistered(ctx context.Context, payload payloads.UserRegisteredPayload) error
}

// UserEventConsumer определяет методы для потребления событий о пользователях
// используется воркером для получения задач из очереди
type UserEventConsumer interface {
	// StartConsumingUserRegistered начинает прослушивание очереди событий регистрации
	// принимает функцию-обработчик, которая будет вызываться для каждого полученного сообщения
	StartConsumingUserRegistered(ctx context.Context, handler func(context.Context, payloads.UserRegisteredPayload) error) error
}
