// internal/domain/user.go
package domain

import (
	"time"
)

// User представляет модель пользователя в системе.
// Соответствует таблице 'users' в базе данных.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Image        string    `json:"image" db:"image"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Email        string    `json:"email" db:"email"`
	Age          int       `json:"age" db:"age"`
	Gender       string    `json:"gender" db:"gender"`
	Place        string    `json:"place" db:"place"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// UserProfile: единственное представление пользователя, которое уходит клиенту.
// Хэша пароля в нем нет.
type UserProfile struct {
	ID        int64     `json:"id"`
	Image     string    `json:"image"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	Place     string    `json:"place"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile строит публичную проекцию пользователя
func (u User) Profile() UserProfile {
	return UserProfile{
		ID:        u.ID,
		Image:     u.Image,
		Username:  u.Username,
		Email:     u.Email,
		Age:       u.Age,
		Gender:    u.Gender,
		Place:     u.Place,
		CreatedAt: u.CreatedAt,
	}
}

// Profiles проецирует список пользователей; результат никогда не nil.
func Profiles(users []User) []UserProfile {
	out := make([]UserProfile, 0, len(users))
	for _, u := range users {
		out = append(out, u.Profile())
	}
	return out
}
