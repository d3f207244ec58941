package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/UserService/internal/domain"
	"github.com/jmoiron/sqlx"
)

const userColumns = `id, image, username, password_hash, email, age, gender, place, created_at`

// UserStorage реализует интерфейс ports.UserStorage поверх sqlx
type UserStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewUserStorage создает новый экземпляр UserStorage
func NewUserStorage(db *sqlx.DB, logger *slog.Logger) *UserStorage {
	return &UserStorage{db: db, logger: logger}
}

// CreateUser сохраняет пользователя и записывает сгенерированный id в user.ID
func (s *UserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	start := time.Now()

	query := `
	INSERT INTO users (image, username, password_hash, email, age, gender, place)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at
	`

	err := s.db.QueryRowxContext(ctx, query,
		user.Image, user.Username, user.PasswordHash, user.Email, user.Age, user.Gender, user.Place,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		s.logger.Error("failed to insert user", "username", user.Username, "error", err)
		return fmt.Errorf("insert user: %w", err)
	}

	s.logger.Info("user saved successfully",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetUserByUsername получает пользователя по username.
// username не уникален, поэтому берется строка с наименьшим id.
func (s *UserStorage) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	start := time.Now()

	var user domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 ORDER BY id LIMIT 1`

	err := s.db.GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("user not found by username", "username", username)
			return nil, nil
		}
		s.logger.Error("failed to get user by username", "username", username, "error", err)
		return nil, fmt.Errorf("select user by username: %w", err)
	}

	s.logger.Info("user retrieved by username",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &user, nil
}

// ListUsersByGender возвращает всех пользователей с точным совпадением gender
func (s *UserStorage) ListUsersByGender(ctx context.Context, gender string) ([]domain.User, error) {
	start := time.Now()

	query := `SELECT ` + userColumns + ` FROM users WHERE gender = $1 ORDER BY id`

	users := []domain.User{}
	if err := s.db.SelectContext(ctx, &users, query, gender); err != nil {
		s.logger.Error("failed to list users by gender", "gender", gender, "error", err)
		return nil, fmt.Errorf("select users by gender: %w", err)
	}

	s.logger.Info("listed users by gender",
		"gender", gender,
		"count", len(users),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return users, nil
}

// FindUsersByUsernameAndEmail ищет пользователей, у которых совпадают и username, и email
func (s *UserStorage) FindUsersByUsernameAndEmail(ctx context.Context, username, email string) ([]domain.User, error) {
	start := time.Now()

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 AND email = $2 ORDER BY id`

	users := []domain.User{}
	if err := s.db.SelectContext(ctx, &users, query, username, email); err != nil {
		s.logger.Error("failed to search users", "username", username, "error", err)
		return nil, fmt.Errorf("select users by username and email: %w", err)
	}

	s.logger.Info("users search completed",
		"found", len(users),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return users, nil
}

// UpdateUserProfile обновляет username и email, возвращает число затронутых строк
func (s *UserStorage) UpdateUserProfile(ctx context.Context, id int64, username, email string) (int64, error) {
	start := time.Now()

	res, err := s.db.ExecContext(ctx, `UPDATE users SET username = $1, email = $2 WHERE id = $3`, username, email, id)
	if err != nil {
		s.logger.Error("failed to update user profile", "user_id", id, "error", err)
		return 0, fmt.Errorf("update user profile: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	s.logger.Info("user profile updated",
		"user_id", id,
		"rows_affected", affected,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return affected, nil
}

func (s *UserStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
