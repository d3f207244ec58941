package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/UserService/internal/core/ports"
	"github.com/GoArmGo/UserService/internal/domain"
	"github.com/GoArmGo/UserService/internal/messaging/payloads"
	"golang.org/x/crypto/bcrypt"
)

// passwordHashCost фиксирован: хэши должны проверяться одинаково на всех инстансах
const passwordHashCost = 10

// userUseCase implements UserUseCase
type userUseCase struct {
	userStorage ports.UserStorage
	fileStorage FileStorage
	tokens      TokenIssuer
	publisher   ports.UserEventPublisher // nil, если RabbitMQ не настроен
	logger      *slog.Logger
	now         func() time.Time
}

// NewUserUseCase создает новый экземпляр UserUseCase.
// publisher может быть nil: тогда события регистрации не публикуются.
func NewUserUseCase(
	userStorage ports.UserStorage,
	fileStorage FileStorage,
	tokens TokenIssuer,
	publisher ports.UserEventPublisher,
	logger *slog.Logger,
) UserUseCase {
	return &userUseCase{
		userStorage: userStorage,
		fileStorage: fileStorage,
		tokens:      tokens,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// Register регистрирует пользователя:
// 1. валидирует форму, 2. загружает изображение в S3,
// 3. хэширует пароль, 4. сохраняет строку в бд, 5. публикует событие
func (uc *userUseCase) Register(ctx context.Context, input RegisterInput) error {
	if err := ValidateRegistration(input); err != nil {
		return err
	}
	age, err := parseAge(input.Age)
	if err != nil {
		return err
	}

	key := ObjectKey(uc.now(), input.Image.Filename)
	contentType := input.Image.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	imageKey, err := uc.fileStorage.UploadFile(ctx, key, input.Image.Content, contentType)
	if err != nil {
		uc.logger.Error("failed to upload registration image", "key", key, "error", err)
		return fmt.Errorf("%w: upload image: %v", domain.ErrInternal, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), passwordHashCost)
	if err != nil {
		uc.logger.Error("failed to hash password", "error", err)
		uc.discardImage(ctx, imageKey)
		return fmt.Errorf("%w: hash password: %v", domain.ErrInternal, err)
	}

	user := &domain.User{
		Image:        imageKey,
		Username:     input.Username,
		PasswordHash: string(hash),
		Email:        input.Email,
		Age:          age,
		Gender:       input.Gender,
		Place:        input.Place,
	}

	if err := uc.userStorage.CreateUser(ctx, user); err != nil {
		uc.logger.Error("failed to register user", "username", input.Username, "error", err)
		uc.discardImage(ctx, imageKey)
		return fmt.Errorf("%w: create user: %v", domain.ErrInternal, err)
	}

	uc.logger.Info("user registered", "user_id", user.ID, "image_key", imageKey)
	uc.publishRegistered(ctx, user)
	return nil
}

// discardImage удаляет изображение, для которого не удалось создать пользователя
func (uc *userUseCase) discardImage(ctx context.Context, key string) {
	if err := uc.fileStorage.DeleteFile(ctx, key); err != nil {
		uc.logger.Warn("failed to delete orphaned image", "key", key, "error", err)
	}
}

func (uc *userUseCase) publishRegistered(ctx context.Context, user *domain.User) {
	if uc.publisher == nil {
		return
	}

	payload := payloads.UserRegisteredPayload{
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
		ImageKey:     user.Image,
		RegisteredAt: user.CreatedAt,
	}
	if err := uc.publisher.PublishUserRegistered(ctx, payload); err != nil {
		// регистрация уже состоялась, событие не критично
		uc.logger.Warn("failed to publish user registered event", "user_id", user.ID, "error", err)
	}
}

// Login ищет пользователя по username и сверяет пароль с bcrypt-хэшем
func (uc *userUseCase) Login(ctx context.Context, username, password string) (string, error) {
	user, err := uc.userStorage.GetUserByUsername(ctx, username)
	if err != nil {
		uc.logger.Error("failed to query user", "username", username, "error", err)
		return "", fmt.Errorf("%w: get user: %v", domain.ErrInternal, err)
	}
	if user == nil {
		return "", domain.ErrUserNotFound
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		uc.logger.Warn("password mismatch", "user_id", user.ID)
		return "", domain.ErrAuthenticationFailed
	}
	if err != nil {
		uc.logger.Error("failed to compare passwords", "user_id", user.ID, "error", err)
		return "", fmt.Errorf("%w: compare password: %v", domain.ErrInternal, err)
	}

	token, err := uc.tokens.Generate(user.ID, user.Username)
	if err != nil {
		uc.logger.Error("failed to generate token", "user_id", user.ID, "error", err)
		return "", fmt.Errorf("%w: generate token: %v", domain.ErrInternal, err)
	}

	uc.logger.Info("user authenticated", "user_id", user.ID)
	return token, nil
}

func (uc *userUseCase) ListUsersByGender(ctx context.Context, gender string) ([]domain.UserProfile, error) {
	users, err := uc.userStorage.ListUsersByGender(ctx, gender)
	if err != nil {
		return nil, fmt.Errorf("%w: list users by gender: %v", domain.ErrInternal, err)
	}
	return domain.Profiles(users), nil
}

func (uc *userUseCase) SearchUsers(ctx context.Context, username, email string) ([]domain.UserProfile, error) {
	users, err := uc.userStorage.FindUsersByUsernameAndEmail(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("%w: search users: %v", domain.ErrInternal, err)
	}
	if len(users) == 0 {
		return nil, domain.ErrAuthenticationFailed
	}
	return domain.Profiles(users), nil
}

// UpdateProfile меняет username и email. Несуществующий id не считается ошибкой.
func (uc *userUseCase) UpdateProfile(ctx context.Context, id int64, input UpdateProfileInput) error {
	if input.Name == "" || input.Email == "" {
		return domain.NewValidationError("Missing required fields")
	}

	affected, err := uc.userStorage.UpdateUserProfile(ctx, id, input.Name, input.Email)
	if err != nil {
		return fmt.Errorf("%w: update profile: %v", domain.ErrInternal, err)
	}
	if affected == 0 {
		uc.logger.Warn("profile update matched no rows", "user_id", id)
	}
	return nil
}

// VerifyRegistrationImage проверяет, что изображение из события действительно лежит в хранилище
func (uc *userUseCase) VerifyRegistrationImage(ctx context.Context, payload payloads.UserRegisteredPayload) error {
	exists, err := uc.fileStorage.FileExists(ctx, payload.ImageKey)
	if err != nil {
		return fmt.Errorf("check image %s: %w", payload.ImageKey, err)
	}
	if !exists {
		uc.logger.Warn("registration image is missing", "user_id", payload.UserID, "image_key", payload.ImageKey)
		return fmt.Errorf("%w: %s", domain.ErrImageMissing, payload.ImageKey)
	}

	uc.logger.Info("registration image verified", "user_id", payload.UserID, "image_key", payload.ImageKey)
	return nil
}
