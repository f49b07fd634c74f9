package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/openlot/propfinder/api/internal/database"
	"github.com/openlot/propfinder/api/internal/models"
)

// FavoriteRepository defines the interface for favorite data access.
type FavoriteRepository interface {
	// ListByUser returns a user's favorites, newest first.
	ListByUser(ctx context.Context, userID int64) ([]models.Favorite, error)

	// PropertyIDsByUser returns the set of property ids the user favorited,
	// used to annotate search results.
	PropertyIDsByUser(ctx context.Context, userID int64) (map[int64]struct{}, error)

	// Find returns the favorite for a (user, property) pair, or nil, nil.
	Find(ctx context.Context, userID, propertyID int64) (*models.Favorite, error)

	// Create inserts a favorite and backfills its ID and CreatedAt.
	Create(ctx context.Context, f *models.Favorite) error

	// DeleteOwned removes a favorite by id, scoped to the owning user.
	// Returns false when no such favorite exists for that user.
	DeleteOwned(ctx context.Context, id, userID int64) (bool, error)
}

// favoriteRepository is the concrete implementation of FavoriteRepository.
type favoriteRepository struct {
	db *database.Database
}

// NewFavoriteRepository creates a new instance of FavoriteRepository.
func NewFavoriteRepository(db *database.Database) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID int64) ([]models.Favorite, error) {
	query := `
		SELECT id, user_id, property_id, created_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites for user %d: %w", userID, err)
	}
	defer rows.Close()

	favorites := []models.Favorite{}
	for rows.Next() {
		var f models.Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.PropertyID, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite row: %w", err)
		}
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating favorite rows: %w", err)
	}

	return favorites, nil
}

func (r *favoriteRepository) PropertyIDsByUser(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	query := `SELECT property_id FROM favorites WHERE user_id = $1`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorite ids for user %d: %w", userID, err)
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite id: %w", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating favorite ids: %w", err)
	}

	return ids, nil
}

func (r *favoriteRepository) Find(ctx context.Context, userID, propertyID int64) (*models.Favorite, error) {
	query := `
		SELECT id, user_id, property_id, created_at
		FROM favorites
		WHERE user_id = $1 AND property_id = $2`

	var f models.Favorite
	err := r.db.Pool.QueryRow(ctx, query, userID, propertyID).Scan(
		&f.ID, &f.UserID, &f.PropertyID, &f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query favorite: %w", err)
	}
	return &f, nil
}

func (r *favoriteRepository) Create(ctx context.Context, f *models.Favorite) error {
	query := `
		INSERT INTO favorites (user_id, property_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.Pool.QueryRow(ctx, query, f.UserID, f.PropertyID).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert favorite: %w", err)
	}
	return nil
}

func (r *favoriteRepository) DeleteOwned(ctx context.Context, id, userID int64) (bool, error) {
	query := `DELETE FROM favorites WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Pool.Exec(ctx, query, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete favorite %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}
