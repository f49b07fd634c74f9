package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/openlot/propfinder/api/internal/logger"
	"github.com/openlot/propfinder/api/internal/models"
	"github.com/openlot/propfinder/api/internal/repository"
)

// Service-level favorite errors
var (
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrAlreadyFavorited = errors.New("property already in favorites")
)

// FavoriteWithProperty pairs a favorite with its property snapshot for the
// favorites listing.
type FavoriteWithProperty struct {
	Favorite models.Favorite
	Property PropertySnapshot
}

// FavoriteService defines the favorite list operations.
type FavoriteService interface {
	// List returns the user's favorites, newest first, each with its
	// property details. Favorites whose property has vanished are skipped.
	List(ctx context.Context, userID int64) ([]FavoriteWithProperty, error)

	// Add favorites a property for the user.
	// Returns ErrPropertyNotFound for unknown properties and
	// ErrAlreadyFavorited for duplicates.
	Add(ctx context.Context, userID, propertyID int64) (*FavoriteWithProperty, error)

	// Remove deletes one of the user's own favorites by favorite id.
	// Returns ErrFavoriteNotFound when it doesn't exist or isn't theirs.
	Remove(ctx context.Context, userID, favoriteID int64) error
}

// favoriteService is the concrete implementation of FavoriteService.
type favoriteService struct {
	favorites  repository.FavoriteRepository
	properties repository.PropertyRepository
	log        *logger.Logger
}

// NewFavoriteService creates a new instance of FavoriteService.
func NewFavoriteService(favorites repository.FavoriteRepository, properties repository.PropertyRepository, log *logger.Logger) FavoriteService {
	return &favoriteService{
		favorites:  favorites,
		properties: properties,
		log:        log,
	}
}

func (s *favoriteService) List(ctx context.Context, userID int64) ([]FavoriteWithProperty, error) {
	favorites, err := s.favorites.ListByUser(ctx, userID)
	if err != nil {
		s.log.Error("Favorite list query failed", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	result := make([]FavoriteWithProperty, 0, len(favorites))
	for _, f := range favorites {
		property, err := s.properties.FindByID(ctx, f.PropertyID)
		if err != nil {
			return nil, fmt.Errorf("failed to load favorited property %d: %w", f.PropertyID, err)
		}
		if property == nil {
			continue
		}
		result = append(result, FavoriteWithProperty{
			Favorite: f,
			Property: PropertySnapshot{Property: *property, IsFavorited: true},
		})
	}

	return result, nil
}

func (s *favoriteService) Add(ctx context.Context, userID, propertyID int64) (*FavoriteWithProperty, error) {
	property, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load property %d: %w", propertyID, err)
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}

	existing, err := s.favorites.Find(ctx, userID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing favorite: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyFavorited
	}

	favorite := &models.Favorite{
		UserID:     userID,
		PropertyID: propertyID,
	}
	if err := s.favorites.Create(ctx, favorite); err != nil {
		s.log.Error("Favorite insert failed", err, map[string]interface{}{
			"user_id":     userID,
			"property_id": propertyID,
		})
		return nil, fmt.Errorf("failed to create favorite: %w", err)
	}

	s.log.Info("Favorite added", map[string]interface{}{
		"user_id":     userID,
		"property_id": propertyID,
	})

	return &FavoriteWithProperty{
		Favorite: *favorite,
		Property: PropertySnapshot{Property: *property, IsFavorited: true},
	}, nil
}

func (s *favoriteService) Remove(ctx context.Context, userID, favoriteID int64) error {
	deleted, err := s.favorites.DeleteOwned(ctx, favoriteID, userID)
	if err != nil {
		s.log.Error("Favorite delete failed", err, map[string]interface{}{
			"user_id":     userID,
			"favorite_id": favoriteID,
		})
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	if !deleted {
		return ErrFavoriteNotFound
	}

	s.log.Info("Favorite removed", map[string]interface{}{
		"user_id":     userID,
		"favorite_id": favoriteID,
	})
	return nil
}
