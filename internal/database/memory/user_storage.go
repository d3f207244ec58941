// Package memory содержит in-memory реализацию ports.UserStorage
// для локального запуска без PostgreSQL (STORAGE_BACKEND=memory) и для тестов.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/GoArmGo/UserService/internal/domain"
)

// ErrDuplicateEmail повторяет UNIQUE-ограничение на users.email
var ErrDuplicateEmail = errors.New("duplicate email")

type UserStorage struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]domain.User
	now    func() time.Time
}

func NewUserStorage() *UserStorage {
	return &UserStorage{
		users: make(map[int64]domain.User),
		now:   time.Now,
	}
}

func (s *UserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return fmt.Errorf("insert user %q: %w", user.Email, ErrDuplicateEmail)
		}
	}

	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = s.now().UTC()
	s.users[user.ID] = *user
	return nil
}

func (s *UserStorage) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	matches, err := s.filter(ctx, func(u domain.User) bool { return u.Username == username })
	if err != nil || len(matches) == 0 {
		return nil, err
	}
	return &matches[0], nil
}

func (s *UserStorage) ListUsersByGender(ctx context.Context, gender string) ([]domain.User, error) {
	return s.filter(ctx, func(u domain.User) bool { return u.Gender == gender })
}

func (s *UserStorage) FindUsersByUsernameAndEmail(ctx context.Context, username, email string) ([]domain.User, error) {
	return s.filter(ctx, func(u domain.User) bool { return u.Username == username && u.Email == email })
}

func (s *UserStorage) UpdateUserProfile(ctx context.Context, id int64, username, email string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return 0, nil
	}
	for otherID, other := range s.users {
		if otherID != id && other.Email == email {
			return 0, fmt.Errorf("update user %d: %w", id, ErrDuplicateEmail)
		}
	}

	u.Username = username
	u.Email = email
	s.users[id] = u
	return 1, nil
}

func (s *UserStorage) Ping(ctx context.Context) error {
	return ctx.Err()
}

// filter возвращает копии подходящих строк, отсортированные по id
func (s *UserStorage) filter(ctx context.Context, match func(domain.User) bool) ([]domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.User{}
	for _, u := range s.users {
		if match(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
