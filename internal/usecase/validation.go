package usecase

import (
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/GoArmGo/UserService/internal/domain"
)

const (
	minPasswordLength = 8
	// bcrypt учитывает не больше 72 байт пароля
	maxPasswordBytes = 72
)

// пробелом считается и юникодный (U+00A0, U+2028, U+FEFF)
var emailRegex = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidatePassword: от 8 символов и не длиннее 72 байт, без переводов строки,
// хотя бы одна цифра, одна строчная и одна заглавная латинская буква.
func ValidatePassword(password string) bool {
	if utf8.RuneCountInString(password) < minPasswordLength || len(password) > maxPasswordBytes {
		return false
	}
	if strings.ContainsAny(password, "\n\r\u2028\u2029") {
		return false
	}

	var digit, lower, upper bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		}
	}
	return digit && lower && upper
}

func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidateRegistration проверяет форму в фиксированном порядке; побеждает первая ошибка.
func ValidateRegistration(in RegisterInput) error {
	switch {
	case in.Image == nil:
		return domain.NewValidationError("No file uploaded")
	case isBlank(in.Username):
		return domain.NewValidationError("username is required")
	case isBlank(in.Password):
		return domain.NewValidationError("Password is required")
	case !ValidatePassword(in.Password):
		return domain.NewValidationError("Invalid password format")
	case isBlank(in.Email):
		return domain.NewValidationError("email is required")
	case !ValidateEmail(in.Email):
		return domain.NewValidationError("Invalid email format")
	case in.Age == "":
		return domain.NewValidationError("age is required")
	case isBlank(in.Gender):
		return domain.NewValidationError("gender is required")
	case isBlank(in.Place):
		return domain.NewValidationError("place is required")
	}
	return nil
}

// parseAge вызывается после ValidateRegistration: колонка age целочисленная
func parseAge(raw string) (int, error) {
	age, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, domain.NewValidationError("age must be a number")
	}
	return age, nil
}

// ObjectKey строит ключ объекта из времени загрузки и исходного имени файла
func ObjectKey(now time.Time, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" {
		name = "upload"
	}
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + name
}
