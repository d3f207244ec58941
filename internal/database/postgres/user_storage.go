package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/UserService/internal/domain"
	"gorm.io/gorm"
)

// GormUserStorage реализует интерфейс ports.UserStorage с использованием GORM
type GormUserStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormUserStorage создает новый экземпляр GormUserStorage
func NewGormUserStorage(db *gorm.DB, logger *slog.Logger) *GormUserStorage {
	return &GormUserStorage{db: db, logger: logger}
}

// CreateUser сохраняет пользователя в БД с помощью GORM
func (s *GormUserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	start := time.Now()

	if result := s.db.WithContext(ctx).Create(user); result.Error != nil {
		s.logger.Error("failed to insert user", "username", user.Username, "error", result.Error)
		return fmt.Errorf("insert user with gorm: %w", result.Error)
	}

	s.logger.Info("user saved successfully",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetUserByUsername получает пользователя по username с помощью GORM
func (s *GormUserStorage) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	result := s.db.WithContext(ctx).Where("username = ?", username).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			s.logger.Warn("user not found by username", "username", username)
			return nil, nil
		}
		return nil, fmt.Errorf("select user by username with gorm: %w", result.Error)
	}
	return &user, nil
}

// ListUsersByGender получает пользователей с заданным gender с помощью GORM
func (s *GormUserStorage) ListUsersByGender(ctx context.Context, gender string) ([]domain.User, error) {
	users := []domain.User{}
	result := s.db.WithContext(ctx).Where("gender = ?", gender).Order("id").Find(&users)
	if result.Error != nil {
		return nil, fmt.Errorf("select users by gender with gorm: %w", result.Error)
	}
	return users, nil
}

// FindUsersByUsernameAndEmail ищет пользователей с помощью GORM
func (s *GormUserStorage) FindUsersByUsernameAndEmail(ctx context.Context, username, email string) ([]domain.User, error) {
	users := []domain.User{}
	result := s.db.WithContext(ctx).
		Where("username = ? AND email = ?", username, email).
		Order("id").
		Find(&users)
	if result.Error != nil {
		return nil, fmt.Errorf("select users by username and email with gorm: %w", result.Error)
	}
	return users, nil
}

// UpdateUserProfile обновляет username и email с помощью GORM
func (s *GormUserStorage) UpdateUserProfile(ctx context.Context, id int64, username, email string) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"username": username, "email": email})
	if result.Error != nil {
		return 0, fmt.Errorf("update user profile with gorm: %w", result.Error)
	}

	s.logger.Info("user profile updated", "user_id", id, "rows_affected", result.RowsAffected)
	return result.RowsAffected, nil
}

func (s *GormUserStorage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
