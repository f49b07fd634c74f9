package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/openlot/propfinder/api/internal/database"
	"github.com/openlot/propfinder/api/internal/models"
)

// UserRepository defines the interface for user and profile data access.
// Lookup methods return nil, nil when no row exists (not an error).
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*models.User, error)

	// Create inserts a user and backfills its ID and CreatedAt.
	Create(ctx context.Context, u *models.User) error

	// LinkGoogleID attaches a Google account id to an existing user.
	LinkGoogleID(ctx context.Context, userID int64, googleID string) error

	// FindProfile returns the profile for a user, or nil, nil when absent.
	FindProfile(ctx context.Context, userID int64) (*models.UserProfile, error)

	// CreateProfile inserts an empty or populated profile row.
	CreateProfile(ctx context.Context, p *models.UserProfile) error

	// UpdateProfile overwrites the mutable profile fields.
	UpdateProfile(ctx context.Context, p *models.UserProfile) error
}

// userRepository is the concrete implementation of UserRepository.
type userRepository struct {
	db *database.Database
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *database.Database) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, username, password_hash, google_id, created_at, updated_at`

func (r *userRepository) findOne(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE " + where

	var u models.User
	err := r.db.Pool.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&u.GoogleID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = $1", email)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username = $1", username)
}

func (r *userRepository) FindByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return r.findOne(ctx, "google_id = $1", googleID)
}

func (r *userRepository) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (email, username, password_hash, google_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.Pool.QueryRow(ctx, query,
		u.Email,
		u.Username,
		u.PasswordHash,
		u.GoogleID,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *userRepository) LinkGoogleID(ctx context.Context, userID int64, googleID string) error {
	query := `UPDATE users SET google_id = $1, updated_at = now() WHERE id = $2`

	if _, err := r.db.Pool.Exec(ctx, query, googleID, userID); err != nil {
		return fmt.Errorf("failed to link google id for user %d: %w", userID, err)
	}
	return nil
}

func (r *userRepository) FindProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	query := `
		SELECT id, user_id, date_of_birth, address, phone, created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1`

	var p models.UserProfile
	err := r.db.Pool.QueryRow(ctx, query, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.DateOfBirth,
		&p.Address,
		&p.Phone,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query profile for user %d: %w", userID, err)
	}
	return &p, nil
}

func (r *userRepository) CreateProfile(ctx context.Context, p *models.UserProfile) error {
	query := `
		INSERT INTO user_profiles (user_id, date_of_birth, address, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.Pool.QueryRow(ctx, query,
		p.UserID,
		p.DateOfBirth,
		p.Address,
		p.Phone,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert profile for user %d: %w", p.UserID, err)
	}
	return nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, p *models.UserProfile) error {
	query := `
		UPDATE user_profiles
		SET date_of_birth = $1, address = $2, phone = $3, updated_at = now()
		WHERE user_id = $4
		RETURNING id`

	err := r.db.Pool.QueryRow(ctx, query,
		p.DateOfBirth,
		p.Address,
		p.Phone,
		p.UserID,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to update profile for user %d: %w", p.UserID, err)
	}
	return nil
}
