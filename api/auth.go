package api

import (
	"net/http"
	"regexp"
	"strings"

	"fintrack/config"
	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the hashing strength of the stored credentials
const bcryptCost = 12

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// AuthHandler serves registration, login and token validation
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50" example:"testuser"`
	Email    string `json:"email" binding:"required,email" example:"test@example.com"`
	Password string `json:"password" binding:"required,min=6" example:"password123"`
	FullName string `json:"fullName" binding:"required,max=255" example:"Test User"`
}

// AuthResponse is returned by login and validate
type AuthResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// Register creates a new user account
// @Summary Register a new user
// @Description Creates a user account. Registration does not log the user in; call login afterwards to obtain a token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "registration payload"
// @Success 201 {object} models.User "user created"
// @Failure 400 {object} ErrorResponse "validation failed or identity already taken"
// @Failure 500 {object} ErrorResponse "server error"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationFailed(c, err)
		return
	}

	if !usernamePattern.MatchString(req.Username) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Validation failed",
			Details: []FieldError{
				{Field: "Username", Message: "may only contain letters, digits and underscores"},
			},
		})
		return
	}
	if strings.TrimSpace(req.FullName) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Validation failed",
			Details: []FieldError{
				{Field: "FullName", Message: "is required"},
			},
		})
		return
	}

	var existing models.User
	if err := database.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		BadRequest(c, "Username already exists")
		return
	}
	if err := database.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		BadRequest(c, "Email already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		InternalError(c, "Failed to hash password")
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
		FullName: strings.TrimSpace(req.FullName),
	}

	if err := database.DB.Create(&user).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to create user"))
		return
	}

	c.JSON(http.StatusCreated, user)
}

// LoginRequest is the login payload
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"testuser"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// Login authenticates a user and issues a token
// @Summary Log in
// @Description Verifies the credentials and returns a signed bearer token. Unknown username and wrong password yield the same error so usernames cannot be probed.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "login payload"
// @Success 200 {object} AuthResponse "token issued"
// @Failure 400 {object} ErrorResponse "validation failed"
// @Failure 401 {object} ErrorResponse "invalid credentials"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationFailed(c, err)
		return
	}

	// Identical error for unknown user and wrong password
	var user models.User
	if err := database.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		Unauthorized(c, "Invalid username or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		Unauthorized(c, "Invalid username or password")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Username, user.Email, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token:    token,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
	})
}

// Validate re-validates the presented token and returns the profile
// @Summary Validate a token
// @Description Runs the same checks as the auth gate and echoes the token back with the current profile fields.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AuthResponse "token still valid"
// @Failure 401 {object} ErrorResponse "missing token or user no longer exists"
// @Failure 403 {object} ErrorResponse "invalid or expired token"
// @Router /api/auth/validate [get]
func (h *AuthHandler) Validate(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		Unauthorized(c, "User not found")
		return
	}

	token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer"))

	c.JSON(http.StatusOK, AuthResponse{
		Token:    token,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
	})
}
