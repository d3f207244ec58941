package payloads

import "time"

// UserRegisteredPayload публикуется в RabbitMQ после успешной регистрации.
type UserRegisteredPayload struct {
	UserID       int64     `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	ImageKey     string    `json:"image_key"`
	RegisteredAt time.Time `json:"registered_at"`
}
