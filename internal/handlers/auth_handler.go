package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/openlot/propfinder/api/internal/apierrors"
	"github.com/openlot/propfinder/api/internal/middleware"
	"github.com/openlot/propfinder/api/internal/services"
)

// AuthHandler handles registration and login HTTP requests.
type AuthHandler struct {
	service services.AuthService
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(service services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterRequest represents the body for the registration endpoint.
// Username is optional.
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
	Password string  `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the body for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest represents the body for the Google OAuth endpoint.
// Code is the authorization code from Google's consent screen.
type GoogleLoginRequest struct {
	Code string `json:"code" binding:"required"`
}

// TokenResponse represents a successful authentication response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func newTokenResponse(token string) TokenResponse {
	return TokenResponse{AccessToken: token, TokenType: "bearer"}
}

// Register handles POST /api/v1/auth/register.
// Returns 201 with an access token on success.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	token, err := h.service.Register(c.Request.Context(), services.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			apierrors.Conflict(c, "Email already registered")
		case errors.Is(err, services.ErrUsernameTaken):
			apierrors.Conflict(c, "Username already taken")
		default:
			apierrors.InternalServerError(c, "Failed to register user", err)
		}
		return
	}

	c.JSON(http.StatusCreated, newTokenResponse(token))
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			apierrors.Unauthorized(c, "Incorrect email or password")
			return
		}
		apierrors.InternalServerError(c, "Failed to log in", err)
		return
	}

	c.JSON(http.StatusOK, newTokenResponse(token))
}

// GoogleLogin handles POST /api/v1/auth/google.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	token, err := h.service.LoginWithGoogle(c.Request.Context(), req.Code)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOAuthNotConfigured):
			apierrors.NotImplemented(c, "Google OAuth not configured")
		case errors.Is(err, services.ErrOAuthExchange):
			apierrors.BadRequest(c, "Google authentication failed", nil)
		default:
			apierrors.InternalServerError(c, "Failed to log in with Google", err)
		}
		return
	}

	c.JSON(http.StatusOK, newTokenResponse(token))
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	c.JSON(http.StatusOK, user)
}
