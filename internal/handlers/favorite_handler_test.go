package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
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

// MockFavoriteService is a mock implementation of FavoriteService for testing
type MockFavoriteService struct {
	mock.Mock
}

func (m *MockFavoriteService) List(ctx context.Context, userID int64) ([]services.FavoriteWithProperty, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.FavoriteWithProperty), args.Error(1)
}

func (m *MockFavoriteService) Add(ctx context.Context, userID, propertyID int64) (*services.FavoriteWithProperty, error) {
	args := m.Called(ctx, userID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.FavoriteWithProperty), args.Error(1)
}

func (m *MockFavoriteService) Remove(ctx context.Context, userID, favoriteID int64) error {
	args := m.Called(ctx, userID, favoriteID)
	return args.Error(0)
}

// setupFavoriteTestRouter wires the favorite routes behind the auth
// middleware, with a stubbed token lookup resolving to user 7.
func setupFavoriteTestRouter(handler *FavoriteHandler) (*gin.Engine, *MockAuthService) {
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
		favorites := v1.Group("/favorites", middleware.RequireAuth(mockAuth))
		{
			favorites.GET("", handler.List)
			favorites.POST("", handler.Add)
			favorites.DELETE("/:id", handler.Remove)
		}
	}

	return router, mockAuth
}

func authedRequest(method, path, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer valid-token")
	return req
}

func TestFavoriteHandler_List_OK(t *testing.T) {
	// Arrange
	mockService := new(MockFavoriteService)
	handler := NewFavoriteHandler(mockService)
	router, _ := setupFavoriteTestRouter(handler)

	favorites := []services.FavoriteWithProperty{
		{
			Favorite: models.Favorite{ID: 1, UserID: 7, PropertyID: 10, CreatedAt: time.Now()},
			Property: services.PropertySnapshot{Property: models.Property{ID: 10}, IsFavorited: true},
		},
	}
	mockService.On("List", mock.Anything, int64(7)).Return(favorites, nil)

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/api/v1/favorites", ""))

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)

	var response FavoriteListResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 1, response.Count)
	require.Len(t, response.Favorites, 1)
	assert.Equal(t, int64(1), response.Favorites[0].ID)
	assert.Equal(t, int64(10), response.Favorites[0].Property.ID)
	assert.True(t, response.Favorites[0].Property.IsFavorited)
}

func TestFavoriteHandler_List_Unauthenticated(t *testing.T) {
	// Arrange
	mockService := new(MockFavoriteService)
	handler := NewFavoriteHandler(mockService)
	router, _ := setupFavoriteTestRouter(handler)

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/favorites", nil))

	// Assert
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "List")
}

func TestFavoriteHandler_Add_Created(t *testing.T) {
	// Arrange
	mockService := new(MockFavoriteService)
	handler := NewFavoriteHandler(mockService)
	router, _ := setupFavoriteTestRouter(handler)

	result := &services.FavoriteWithProperty{
		Favorite: models.Favorite{ID: 5, UserID: 7, PropertyID: 10, CreatedAt: time.Now()},
		Property: services.PropertySnapshot{Property: models.Property{ID: 10}, IsFavorited: true},
	}
	mockService.On("Add", mock.Anything, int64(7), int64(10)).Return(result, nil)

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPost, "/api/v1/favorites", `{"property_id":10}`))

	// Assert
	assert.Equal(t, http.StatusCreated, w.Code)

	var response FavoriteResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, int64(5), response.ID)
	assert.Equal(t, int64(10), response.Property.ID)
}

func TestFavoriteHandler_Add_PropertyMissing(t *testing.T) {
	// Arrange
	mockService := new(MockFavoriteService)
	handler := NewFavoriteHandler(mockService)
	router, _ := setupFavoriteTestRouter(handler)

	mockService.On("Add", mock.Anything, int64(7), int64(99)).
		Return(nil, services.ErrPropertyNotFound)

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPost, "/api/v1/favorites", `{"property_id":99}`))

	// Assert
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavoriteHandler_Add_Duplicate(t *testing.T) {
	// Arrange
	mockService := new(MockFavoriteService)
	handler := NewFavoriteHandler(mockService)
	router, _ := setupFavoriteTestRouter(handler)

	mockService.On("Add", mock.Anything, int64(7), int64(10)).
		Return(nil, services.ErrAlreadyFavorited)

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPost, "/api/v1/favorites", `{"property_id":10}`))

	// Assert
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestFavoriteHandler_Add_InvalidBody(t *testing.T) {
	// Arrange
	mockService := new(MockFavoriteService)
	handler := NewFavoriteHandler(mockService)
	router, _ := setupFavoriteTestRouter(handler)

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPost, "/api/v1/favorites", `{"property_id":0}`))

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Add")
}

func TestFavoriteHandler_Remove_NoContent(t *testing.T) {
	// Arrange
	mockService := new(MockFavoriteService)
	handler := NewFavoriteHandler(mockService)
	router, _ := setupFavoriteTestRouter(handler)

	mockService.On("Remove", mock.Anything, int64(7), int64(5)).Return(nil)

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodDelete, "/api/v1/favorites/5", ""))

	// Assert
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestFavoriteHandler_Remove_NotFound(t *testing.T) {
	// Arrange
	mockService := new(MockFavoriteService)
	handler := NewFavoriteHandler(mockService)
	router, _ := setupFavoriteTestRouter(handler)

	mockService.On("Remove", mock.Anything, int64(7), int64(5)).
		Return(services.ErrFavoriteNotFound)

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodDelete, "/api/v1/favorites/5", ""))

	// Assert
	assert.Equal(t, http.StatusNotFound, w.Code)
}
