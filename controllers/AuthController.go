package controllers

import (
	"constructionProject/config"
	"constructionProject/database"
	"constructionProject/middleware"
	"constructionProject/models"
	"constructionProject/services"
	"constructionProject/utils"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type AuthController struct {
	userHandler *services.UserService
	validate    *validator.Validate
	config      *config.Config
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SignInResponse struct {
	Token string `json:"token"`
}

type SignUpRequest struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=50,alpha"`
	LastName  string `json:"lastName" validate:"required,min=2,max=50,alpha"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,password"`
}

// CreateUserRequest запрос администратора на создание сотрудника с ролью
type CreateUserRequest struct {
	SignUpRequest
	Role models.Role `json:"role" validate:"required,oneof=ADMIN ACCOUNTANT MANAGER"`
}

type Token struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	UserID    uint      `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type AuthResponse struct {
	Token Token            `json:"token"`
	User  services.UserDTO `json:"user"`
}

var (
	hasNumber  = regexp.MustCompile(`[0-9]`)
	hasUpper   = regexp.MustCompile(`[A-Z]`)
	hasLower   = regexp.MustCompile(`[a-z]`)
	hasSpecial = regexp.MustCompile(`[!@#$%^&*]`)
)

func NewAuthController(db *database.Database, cfg *config.Config) *AuthController {
	validate := validator.New()

	// Регистрация кастомной валидации для пароля
	validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		password := fl.Field().String()
		return hasNumber.MatchString(password) &&
			hasUpper.MatchString(password) &&
			hasLower.MatchString(password) &&
			hasSpecial.MatchString(password)
	})

	return &AuthController{
		userHandler: services.NewUserService(db),
		validate:    validate,
		config:      cfg,
	}
}

// SignIn обрабатывает вход сотрудника
func (c *AuthController) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Валидация запроса
	if err := c.validate.Struct(req); err != nil {
		http.Error(w, services.ValidationMessage(err), http.StatusBadRequest)
		return
	}

	// Ищем пользователя по email
	user, err := c.userHandler.FindByEmail(req.Email)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	// Проверяем пароль
	if !utils.VerifyPassword(req.Password, user.Password) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := c.generateToken(user)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, SignInResponse{Token: token.Token})
}

// SignUp регистрирует сотрудника с ролью MANAGER. Роль ADMIN получает только
// сотрудник с email из AUTH_ADMIN_EMAIL; другие роли назначает администратор через CreateUser.
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Валидация запроса
	if err := c.validate.Struct(req); err != nil {
		http.Error(w, services.ValidationMessage(err), http.StatusBadRequest)
		return
	}

	role := models.RoleManager
	if c.config.Auth.AdminEmail != "" && strings.EqualFold(strings.TrimSpace(req.Email), c.config.Auth.AdminEmail) {
		role = models.RoleAdmin
	}

	c.createUser(w, req, role)
}

// CreateUser создает сотрудника с указанной ролью (только для ADMIN)
func (c *AuthController) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := c.validate.Struct(req); err != nil {
		http.Error(w, services.ValidationMessage(err), http.StatusBadRequest)
		return
	}

	c.createUser(w, req.SignUpRequest, req.Role)
}

func (c *AuthController) createUser(w http.ResponseWriter, req SignUpRequest, role models.Role) {
	// Создаем пользователя через UserService
	user, err := c.userHandler.CreateUserInternal(services.CreateUserRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      role,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	// Генерация JWT токена
	token, err := c.generateToken(user)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Token: *token,
		User:  toUserDTO(user),
	})
}

// Me возвращает данные текущего сотрудника
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	userID, _, err := middleware.GetUserFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := c.userHandler.FindByID(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// generateToken создает JWT токен
func (c *AuthController) generateToken(user *models.User) (*Token, error) {
	ttl := time.Duration(c.config.JWT.ExpiresIn) * time.Hour
	tokenString, expiresAt, err := middleware.IssueToken([]byte(c.config.JWT.SecretKey), user, ttl)
	if err != nil {
		return nil, err
	}

	return &Token{
		Token:     tokenString,
		Email:     user.Email,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}, nil
}

func toUserDTO(user *models.User) services.UserDTO {
	return services.UserDTO{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      string(user.Role),
	}
}
