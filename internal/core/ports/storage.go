package ports

import (
	"context"

	"github.com/GoArmGo/UserService/internal/domain"
)

// UserStorage определяет методы для взаимодействия с хранилищем пользователей.
// Реализации: sqlx (storage), GORM (postgres) и in-memory (memory).
type UserStorage interface {
	// CreateUser вставляет пользователя и заполняет user.ID
	CreateUser(ctx context.Context, user *domain.User) error

	// GetUserByUsername возвращает первого по id пользователя с таким username,
	// либо nil, nil если его нет
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	ListUsersByGender(ctx context.Context, gender string) ([]domain.User, error)
	FindUsersByUsernameAndEmail(ctx context.Context, username, email string) ([]domain.User, error)

	// UpdateUserProfile меняет username и email, возвращает число затронутых строк
	UpdateUserProfile(ctx context.Context, id int64, username, email string) (int64, error)

	Ping(ctx context.Context) error
}
