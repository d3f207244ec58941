package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/GoArmGo/UserService/internal/domain"
	"github.com/GoArmGo/UserService/internal/usecase"
	"github.com/go-chi/chi/v5"
)

// UserHandler — обработчик HTTP-запросов для работы с пользователями.
type UserHandler struct {
	userUseCase    usecase.UserUseCase
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewUserHandler создаёт новый экземпляр UserHandler.
func NewUserHandler(uc usecase.UserUseCase, maxUploadBytes int64, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase:    uc,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Routes регистрирует маршруты пользователей на роутере.
func (h *UserHandler) Routes(r chi.Router) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Get("/users/{gender}", h.ListUsersByGender)
	r.Get("/search", h.SearchUsers)
	r.Put("/profile/{id}", h.UpdateProfile)
}

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError — отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]string{"error": message}, logger)
}

func respondWithMessage(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]string{"message": message}, logger)
}

// respondWithDomainError переводит ошибку use case в HTTP-статус.
// Внутренние причины пишутся в лог и клиенту не отдаются.
func (h *UserHandler) respondWithDomainError(w http.ResponseWriter, endpoint string, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		h.logger.Warn("validation failed", "endpoint", endpoint, "reason", vErr.Message)
		respondWithError(w, http.StatusBadRequest, vErr.Message, h.logger)
	case errors.Is(err, domain.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, "User not found", h.logger)
	case errors.Is(err, domain.ErrAuthenticationFailed):
		respondWithError(w, http.StatusUnauthorized, "Authentication failed", h.logger)
	default:
		h.logger.Error("request failed", "endpoint", endpoint, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error", h.logger)
	}
}

// Register — регистрация пользователя: multipart-форма с файлом image и текстовыми полями.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	// форма без файлов (urlencoded) тоже принимается: ParseForm уже отработал
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "File too large", h.logger)
			return
		}
		h.logger.Warn("failed to parse registration form", "error", err)
		respondWithError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	input := usecase.RegisterInput{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
		Email:    r.FormValue("email"),
		Age:      r.FormValue("age"),
		Gender:   r.FormValue("gender"),
		Place:    r.FormValue("place"),
	}

	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		input.Image = uploadFromHeader(file, header)
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// Image остается nil
	default:
		h.logger.Warn("failed to read uploaded file", "error", err)
		respondWithError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	h.logger.Info("processing request", "endpoint", "Register", "username", input.Username)

	if err := h.userUseCase.Register(r.Context(), input); err != nil {
		h.respondWithDomainError(w, "Register", err)
		return
	}

	respondWithMessage(w, http.StatusCreated, "User registered successfully", h.logger)
}

func uploadFromHeader(file multipart.File, header *multipart.FileHeader) *usecase.Upload {
	return &usecase.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Login — проверка учетных данных и выдача токена.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid login body", "error", err)
		respondWithError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	h.logger.Info("processing request", "endpoint", "Login", "username", req.Username)

	token, err := h.userUseCase.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.respondWithDomainError(w, "Login", err)
		return
	}

	respondWithJSON(w, http.StatusOK, loginResponse{Message: "Authentication successful", Token: token}, h.logger)
}

// ListUsersByGender — все пользователи с заданным полом.
func (h *UserHandler) ListUsersByGender(w http.ResponseWriter, r *http.Request) {
	gender := chi.URLParam(r, "gender")

	profiles, err := h.userUseCase.ListUsersByGender(r.Context(), gender)
	if err != nil {
		h.respondWithDomainError(w, "ListUsersByGender", err)
		return
	}

	h.logger.Info("users listed", "gender", gender, "count", len(profiles))
	respondWithJSON(w, http.StatusOK, profiles, h.logger)
}

// SearchUsers — поиск по точному совпадению username и email.
func (h *UserHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	email := r.URL.Query().Get("email")

	profiles, err := h.userUseCase.SearchUsers(r.Context(), username, email)
	if err != nil {
		h.respondWithDomainError(w, "SearchUsers", err)
		return
	}

	h.logger.Info("users found", "count", len(profiles))
	respondWithJSON(w, http.StatusOK, profiles, h.logger)
}

// UpdateProfile — смена username и email пользователя.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.logger.Warn("invalid user id parameter", "id", idStr, "error", err)
		respondWithError(w, http.StatusBadRequest, "Invalid user id", h.logger)
		return
	}

	var input usecase.UpdateProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.Warn("invalid profile body", "error", err)
		respondWithError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	if err := h.userUseCase.UpdateProfile(r.Context(), id, input); err != nil {
		h.respondWithDomainError(w, "UpdateProfile", err)
		return
	}

	h.logger.Info("profile updated", "user_id", id)
	respondWithMessage(w, http.StatusOK, "User updated successfully", h.logger)
}
