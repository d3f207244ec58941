package usecase

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/GoArmGo/UserService/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Passw0rd", true},
		{"abcDEF12", true},
		{"Пароль1aA", true},
		{"Pass0rd", false},        // 7 символов
		{"password1", false},      // нет заглавной
		{"PASSWORD1", false},      // нет строчной
		{"Password", false},       // нет цифры
		{"Pass\nw0rd", false},     // перевод строки
		{"Pass\rw0rd", false},     // возврат каретки
		{"Pass\u2028w0rd", false}, // line separator
		{"", false},
		{"Abc1" + strings.Repeat("x", 68), true},  // ровно 72 байта
		{"Abc1" + strings.Repeat("x", 69), false}, // bcrypt не примет
		{"Abc1" + strings.Repeat("x", 80), false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePassword(tt.password))
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("a@b.co"))
	assert.True(t, ValidateEmail("first.last+tag@mail.example.org"))

	assert.False(t, ValidateEmail("ab.co"))
	assert.False(t, ValidateEmail("a@bco"))
	assert.False(t, ValidateEmail("a b@c.d"))
	assert.False(t, ValidateEmail("a@@b.co"))
	assert.False(t, ValidateEmail(""))
	assert.False(t, ValidateEmail("a\u00a0b@c.com"))
	assert.False(t, ValidateEmail("a@c\u2028d.com"))
	assert.False(t, ValidateEmail("\ufeffa@c.com"))
	assert.False(t, ValidateEmail("a\vb@c.com"))
}

func validInput() RegisterInput {
	return RegisterInput{
		Image:    &Upload{Filename: "me.png", Content: strings.NewReader("png")},
		Username: "alice",
		Password: "Passw0rd",
		Email:    "alice@example.com",
		Age:      "30",
		Gender:   "female",
		Place:    "Paris",
	}
}

func TestValidateRegistration_Order(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterInput)
		want   string
	}{
		{"no image wins over everything", func(in *RegisterInput) { *in = RegisterInput{} }, "No file uploaded"},
		{"username", func(in *RegisterInput) { in.Username = "  "; in.Password = "" }, "username is required"},
		{"password missing", func(in *RegisterInput) { in.Password = ""; in.Email = "bad" }, "Password is required"},
		{"password format", func(in *RegisterInput) { in.Password = "short"; in.Email = "" }, "Invalid password format"},
		{"password too long for bcrypt", func(in *RegisterInput) { in.Password = "Abc1" + strings.Repeat("x", 80) }, "Invalid password format"},
		{"email missing", func(in *RegisterInput) { in.Email = ""; in.Age = "" }, "email is required"},
		{"email format", func(in *RegisterInput) { in.Email = "nope"; in.Age = "" }, "Invalid email format"},
		{"age", func(in *RegisterInput) { in.Age = ""; in.Gender = "" }, "age is required"},
		{"gender", func(in *RegisterInput) { in.Gender = ""; in.Place = "" }, "gender is required"},
		{"place", func(in *RegisterInput) { in.Place = "" }, "place is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			err := ValidateRegistration(in)
			require.Error(t, err)

			var vErr *domain.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.want, vErr.Message)
		})
	}
}

func TestValidateRegistration_OK(t *testing.T) {
	assert.NoError(t, ValidateRegistration(validInput()))
}

func TestParseAge(t *testing.T) {
	age, err := parseAge(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, 42, age)

	_, err = parseAge("forty")
	require.Error(t, err)
	assert.Equal(t, "age must be a number", err.Error())
}

func TestObjectKey(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	assert.Equal(t, "1700000000123-me.png", ObjectKey(now, "me.png"))
	assert.Equal(t, "1700000000123-me.png", ObjectKey(now, "../../etc/me.png"))
	assert.Equal(t, "1700000000123-me.png", ObjectKey(now, `C:\Users\bob\me.png`))
	assert.Equal(t, "1700000000123-upload", ObjectKey(now, ""))
}
