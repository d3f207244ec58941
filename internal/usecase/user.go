package usecase

import (
	"context"
	"io"

	"github.com/GoArmGo/UserService/internal/domain"
	"github.com/GoArmGo/UserService/internal/messaging/payloads"
)

// FileStorage определяет интерфейс для работы с файловым хранилищем (AWS S3, MinIO)
// порт для хранения бинарных данных (изображений пользователей)
type FileStorage interface {
	// UploadFile загружает файл в хранилище и возвращает ключ, под которым он сохранен.
	UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)

	// DeleteFile удаляет файл из хранилища по его ключу.
	DeleteFile(ctx context.Context, key string) error

	// FileExists проверяет наличие объекта по ключу.
	FileExists(ctx context.Context, key string) (bool, error)
}

// TokenIssuer выпускает подписанный токен после успешного входа
type TokenIssuer interface {
	Generate(userID int64, username string) (string, error)
}

// Upload: файл из multipart-формы регистрации
type Upload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// RegisterInput содержит поля формы регистрации как они пришли от клиента.
// Image == nil означает, что файл не был приложен.
type RegisterInput struct {
	Image    *Upload
	Username string
	Password string
	Email    string
	Age      string
	Gender   string
	Place    string
}

// UpdateProfileInput: тело PUT /profile/{id}
type UpdateProfileInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserUseCase определяет интерфейс для бизнес-логики работы с пользователями
type UserUseCase interface {
	// Register валидирует форму, загружает изображение, хэширует пароль и создает пользователя
	Register(ctx context.Context, input RegisterInput) error

	// Login проверяет пароль и возвращает подписанный токен
	Login(ctx context.Context, username, password string) (string, error)

	ListUsersByGender(ctx context.Context, gender string) ([]domain.UserProfile, error)

	// SearchUsers ищет по точному совпадению username и email;
	// пустой результат возвращается как domain.ErrAuthenticationFailed
	SearchUsers(ctx context.Context, username, email string) ([]domain.UserProfile, error)

	UpdateProfile(ctx context.Context, id int64, input UpdateProfileInput) error

	// VerifyRegistrationImage вызывается воркером для события регистрации
	VerifyRegistrationImage(ctx context.Context, payload payloads.UserRegisteredPayload) error
}
