package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openlot/propfinder/api/internal/logger"
	"github.com/openlot/propfinder/api/internal/middleware"
	"github.com/openlot/propfinder/api/internal/models"
	"github.com/openlot/propfinder/api/internal/services"
)

// MockUserService is a mock implementation of UserService for testing
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID int64, update services.ProfileUpdate) (*models.UserProfile, error) {
	args := m.Called(ctx, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func setupUserTestRouter(handler *UserHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	log := logger.New("test")
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))

	mockAuth := new(MockAuthService)
	mockAuth.On("UserFromToken", mock.Anything, "valid-token").
		Return(&models.User{ID: 7, Email: "user@example.com"}, nil).Maybe()

	v1 := router.Group("/api/v1")
	{
		users := v1.Group("/users", middleware.RequireAuth(mockAuth))
		{
			users.GET("/profile", handler.GetProfile)
			users.PUT("/profile", handler.UpdateProfile)
		}
	}

	return router
}

func TestUserHandler_GetProfile_OK(t *testing.T) {
	// Arrange
	mockService := new(MockUserService)
	handler := NewUserHandler(mockService)
	router := setupUserTestRouter(handler)

	address := "456 Oak Ave"
	profile := &models.UserProfile{ID: 1, UserID: 7, Address: &address}
	mockService.On("GetProfile", mock.Anything, int64(7)).Return(profile, nil)

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/api/v1/users/profile", ""))

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)

	var response models.UserProfile
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, int64(7), response.UserID)
	require.NotNil(t, response.Address)
	assert.Equal(t, "456 Oak Ave", *response.Address)
}

func TestUserHandler_UpdateProfile_OK(t *testing.T) {
	// Arrange
	mockService := new(MockUserService)
	handler := NewUserHandler(mockService)
	router := setupUserTestRouter(handler)

	dob := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
	phone := "555-0199"
	updated := &models.UserProfile{ID: 1, UserID: 7, DateOfBirth: &dob, Phone: &phone}

	mockService.On("UpdateProfile", mock.Anything, int64(7), mock.MatchedBy(func(u services.ProfileUpdate) bool {
		return u.DateOfBirth != nil && u.DateOfBirth.Equal(dob) &&
			u.Phone != nil && *u.Phone == "555-0199" &&
			u.Address == nil
	})).Return(updated, nil)

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPut, "/api/v1/users/profile",
		`{"date_of_birth":"1990-06-15","phone":"555-0199"}`))

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)

	var response models.UserProfile
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.NotNil(t, response.Phone)
	assert.Equal(t, "555-0199", *response.Phone)
	mockService.AssertExpectations(t)
}

func TestUserHandler_UpdateProfile_BadDate(t *testing.T) {
	// Arrange
	mockService := new(MockUserService)
	handler := NewUserHandler(mockService)
	router := setupUserTestRouter(handler)

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPut, "/api/v1/users/profile",
		`{"date_of_birth":"junk"}`))

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "UpdateProfile")
}

func TestUserHandler_Profile_Unauthenticated(t *testing.T) {
	// Arrange
	mockService := new(MockUserService)
	handler := NewUserHandler(mockService)
	router := setupUserTestRouter(handler)

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/profile", nil))

	// Assert
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "GetProfile")
}
