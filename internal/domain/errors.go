package domain

import "errors"

var (
	// ErrUserNotFound: пользователь с таким username не существует
	ErrUserNotFound = errors.New("user not found")

	// ErrAuthenticationFailed: неверный пароль либо пустой результат поиска
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrInternal: ошибка хранилища, хэширования или выпуска токена
	ErrInternal = errors.New("internal error")

	// ErrImageMissing: изображение из события регистрации отсутствует в хранилище
	ErrImageMissing = errors.New("registration image missing")
)

// ValidationError описывает некорректный ввод; Message отдается клиенту как есть.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError создает ValidationError с сообщением для клиента
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}
