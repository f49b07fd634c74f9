package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openlot/propfinder/api/internal/logger"
	"github.com/openlot/propfinder/api/internal/models"
)

func newTestFavoriteService(favorites *MockFavoriteRepository, properties *MockPropertyRepository) FavoriteService {
	return NewFavoriteService(favorites, properties, logger.New("test"))
}

func TestFavoriteList_Success(t *testing.T) {
	// Arrange
	mockFavs := new(MockFavoriteRepository)
	mockProps := new(MockPropertyRepository)
	service := newTestFavoriteService(mockFavs, mockProps)

	ctx := context.Background()
	now := time.Now()
	favorites := []models.Favorite{
		{ID: 2, UserID: 7, PropertyID: 20, CreatedAt: now},
		{ID: 1, UserID: 7, PropertyID: 10, CreatedAt: now.Add(-time.Hour)},
	}
	p10 := testProperty(10, "90210", 80, nil, nil)
	p20 := testProperty(20, "90211", 70, nil, nil)

	mockFavs.On("ListByUser", ctx, int64(7)).Return(favorites, nil)
	mockProps.On("FindByID", ctx, int64(20)).Return(&p20, nil)
	mockProps.On("FindByID", ctx, int64(10)).Return(&p10, nil)

	// Act
	result, err := service.List(ctx, 7)

	// Assert
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, int64(2), result[0].Favorite.ID)
	assert.Equal(t, int64(20), result[0].Property.ID)
	assert.True(t, result[0].Property.IsFavorited)
	assert.Equal(t, int64(1), result[1].Favorite.ID)
}

func TestFavoriteList_SkipsVanishedProperties(t *testing.T) {
	// Arrange
	mockFavs := new(MockFavoriteRepository)
	mockProps := new(MockPropertyRepository)
	service := newTestFavoriteService(mockFavs, mockProps)

	ctx := context.Background()
	favorites := []models.Favorite{
		{ID: 1, UserID: 7, PropertyID: 10},
		{ID: 2, UserID: 7, PropertyID: 99},
	}
	p10 := testProperty(10, "90210", 80, nil, nil)

	mockFavs.On("ListByUser", ctx, int64(7)).Return(favorites, nil)
	mockProps.On("FindByID", ctx, int64(10)).Return(&p10, nil)
	mockProps.On("FindByID", ctx, int64(99)).Return(nil, nil)

	// Act
	result, err := service.List(ctx, 7)

	// Assert
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, int64(10), result[0].Property.ID)
}

func TestFavoriteAdd_Success(t *testing.T) {
	// Arrange
	mockFavs := new(MockFavoriteRepository)
	mockProps := new(MockPropertyRepository)
	service := newTestFavoriteService(mockFavs, mockProps)

	ctx := context.Background()
	property := testProperty(10, "90210", 80, nil, nil)

	mockProps.On("FindByID", ctx, int64(10)).Return(&property, nil)
	mockFavs.On("Find", ctx, int64(7), int64(10)).Return(nil, nil)
	mockFavs.On("Create", ctx, mock.AnythingOfType("*models.Favorite")).Run(func(args mock.Arguments) {
		f := args.Get(1).(*models.Favorite)
		f.ID = 5
		f.CreatedAt = time.Now()
	}).Return(nil)

	// Act
	result, err := service.Add(ctx, 7, 10)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int64(5), result.Favorite.ID)
	assert.Equal(t, int64(10), result.Property.ID)
	assert.True(t, result.Property.IsFavorited)
	mockFavs.AssertExpectations(t)
}

func TestFavoriteAdd_PropertyNotFound(t *testing.T) {
	// Arrange
	mockFavs := new(MockFavoriteRepository)
	mockProps := new(MockPropertyRepository)
	service := newTestFavoriteService(mockFavs, mockProps)

	ctx := context.Background()
	mockProps.On("FindByID", ctx, int64(99)).Return(nil, nil)

	// Act
	result, err := service.Add(ctx, 7, 99)

	// Assert
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
	mockFavs.AssertNotCalled(t, "Create")
}

func TestFavoriteAdd_Duplicate(t *testing.T) {
	// Arrange
	mockFavs := new(MockFavoriteRepository)
	mockProps := new(MockPropertyRepository)
	service := newTestFavoriteService(mockFavs, mockProps)

	ctx := context.Background()
	property := testProperty(10, "90210", 80, nil, nil)
	existing := &models.Favorite{ID: 5, UserID: 7, PropertyID: 10}

	mockProps.On("FindByID", ctx, int64(10)).Return(&property, nil)
	mockFavs.On("Find", ctx, int64(7), int64(10)).Return(existing, nil)

	// Act
	result, err := service.Add(ctx, 7, 10)

	// Assert
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrAlreadyFavorited)
	mockFavs.AssertNotCalled(t, "Create")
}

func TestFavoriteRemove_Success(t *testing.T) {
	// Arrange
	mockFavs := new(MockFavoriteRepository)
	mockProps := new(MockPropertyRepository)
	service := newTestFavoriteService(mockFavs, mockProps)

	ctx := context.Background()
	mockFavs.On("DeleteOwned", ctx, int64(5), int64(7)).Return(true, nil)

	// Act
	err := service.Remove(ctx, 7, 5)

	// Assert
	assert.NoError(t, err)
	mockFavs.AssertExpectations(t)
}

func TestFavoriteRemove_NotFound(t *testing.T) {
	// Arrange
	mockFavs := new(MockFavoriteRepository)
	mockProps := new(MockPropertyRepository)
	service := newTestFavoriteService(mockFavs, mockProps)

	ctx := context.Background()
	// Covers both a missing favorite and one owned by someone else.
	mockFavs.On("DeleteOwned", ctx, int64(5), int64(7)).Return(false, nil)

	// Act
	err := service.Remove(ctx, 7, 5)

	// Assert
	assert.ErrorIs(t, err, ErrFavoriteNotFound)
}

func TestFavoriteRemove_StoreError(t *testing.T) {
	// Arrange
	mockFavs := new(MockFavoriteRepository)
	mockProps := new(MockPropertyRepository)
	service := newTestFavoriteService(mockFavs, mockProps)

	ctx := context.Background()
	mockFavs.On("DeleteOwned", ctx, int64(5), int64(7)).Return(false, errors.New("connection reset"))

	// Act
	err := service.Remove(ctx, 7, 5)

	// Assert
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrFavoriteNotFound)
}
