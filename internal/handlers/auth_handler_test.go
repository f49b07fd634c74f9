package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openlot/propfinder/api/internal/apierrors"
	"github.com/openlot/propfinder/api/internal/logger"
	"github.com/openlot/propfinder/api/internal/middleware"
	"github.com/openlot/propfinder/api/internal/models"
	"github.com/openlot/propfinder/api/internal/services"
)

// MockAuthService is a mock implementation of AuthService for testing
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, input services.RegisterInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) LoginWithGoogle(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) UserFromToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// setupAuthTestRouter creates a test router with the full auth route group,
// including the auth middleware for /me.
func setupAuthTestRouter(handler *AuthHandler, authService services.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	log := logger.New("test")
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))

	v1 := router.Group("/api/v1")
	{
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", handler.Register)
			authRoutes.POST("/login", handler.Login)
			authRoutes.POST("/google", handler.GoogleLogin)
			authRoutes.GET("/me", middleware.RequireAuth(authService), handler.Me)
		}
	}

	return router
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register_Created(t *testing.T) {
	// Arrange
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService)
	router := setupAuthTestRouter(handler, mockService)

	mockService.On("Register", mock.Anything, mock.MatchedBy(func(in services.RegisterInput) bool {
		return in.Email == "new@example.com" && in.Username != nil && *in.Username == "newuser"
	})).Return("issued-token", nil)

	// Act
	w := postJSON(t, router, "/api/v1/auth/register",
		`{"email":"new@example.com","username":"newuser","password":"long-enough-pw"}`)

	// Assert
	assert.Equal(t, http.StatusCreated, w.Code)

	var response TokenResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "issued-token", response.AccessToken)
	assert.Equal(t, "bearer", response.TokenType)
	mockService.AssertExpectations(t)
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	// Arrange
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService)
	router := setupAuthTestRouter(handler, mockService)

	mockService.On("Register", mock.Anything, mock.Anything).Return("", services.ErrEmailTaken)

	// Act
	w := postJSON(t, router, "/api/v1/auth/register",
		`{"email":"taken@example.com","password":"long-enough-pw"}`)

	// Assert
	assert.Equal(t, http.StatusConflict, w.Code)

	var response apierrors.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, apierrors.ErrConflict, response.Error.Code)
}

func TestAuthHandler_Register_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing email", body: `{"password":"long-enough-pw"}`},
		{name: "malformed email", body: `{"email":"nope","password":"long-enough-pw"}`},
		{name: "short password", body: `{"email":"a@b.com","password":"short"}`},
		{name: "not json", body: `{{{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			handler := NewAuthHandler(mockService)
			router := setupAuthTestRouter(handler, mockService)

			w := postJSON(t, router, "/api/v1/auth/register", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			mockService.AssertNotCalled(t, "Register")
		})
	}
}

func TestAuthHandler_Login_OK(t *testing.T) {
	// Arrange
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService)
	router := setupAuthTestRouter(handler, mockService)

	mockService.On("Login", mock.Anything, "user@example.com", "secret-pw").Return("issued-token", nil)

	// Act
	w := postJSON(t, router, "/api/v1/auth/login",
		`{"email":"user@example.com","password":"secret-pw"}`)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)

	var response TokenResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "issued-token", response.AccessToken)
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	// Arrange
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService)
	router := setupAuthTestRouter(handler, mockService)

	mockService.On("Login", mock.Anything, "user@example.com", "wrong").
		Return("", services.ErrInvalidCredentials)

	// Act
	w := postJSON(t, router, "/api/v1/auth/login",
		`{"email":"user@example.com","password":"wrong"}`)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Google_NotConfigured(t *testing.T) {
	// Arrange
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService)
	router := setupAuthTestRouter(handler, mockService)

	mockService.On("LoginWithGoogle", mock.Anything, "some-code").
		Return("", services.ErrOAuthNotConfigured)

	// Act
	w := postJSON(t, router, "/api/v1/auth/google", `{"code":"some-code"}`)

	// Assert
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestAuthHandler_Google_BadCode(t *testing.T) {
	// Arrange
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService)
	router := setupAuthTestRouter(handler, mockService)

	mockService.On("LoginWithGoogle", mock.Anything, "bad-code").
		Return("", services.ErrOAuthExchange)

	// Act
	w := postJSON(t, router, "/api/v1/auth/google", `{"code":"bad-code"}`)

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Me_OK(t *testing.T) {
	// Arrange
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService)
	router := setupAuthTestRouter(handler, mockService)

	user := &models.User{ID: 1, Email: "user@example.com"}
	mockService.On("UserFromToken", mock.Anything, "valid-token").Return(user, nil)

	// Act
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)

	var response models.User
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, int64(1), response.ID)
	assert.Equal(t, "user@example.com", response.Email)
}

func TestAuthHandler_Me_MissingToken(t *testing.T) {
	// Arrange
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService)
	router := setupAuthTestRouter(handler, mockService)

	// Act
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "UserFromToken")
}

func TestAuthHandler_Me_InvalidToken(t *testing.T) {
	// Arrange
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService)
	router := setupAuthTestRouter(handler, mockService)

	mockService.On("UserFromToken", mock.Anything, "expired").
		Return(nil, services.ErrUserNotFound)

	// Act
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer expired")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
