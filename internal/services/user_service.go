package services

import (
	"context"
	"fmt"
	"time"

	"github.com/openlot/propfinder/api/internal/logger"
	"github.com/openlot/propfinder/api/internal/models"
	"github.com/openlot/propfinder/api/internal/repository"
)

// ProfileUpdate carries the profile fields to change. Nil fields are left
// unchanged.
type ProfileUpdate struct {
	DateOfBirth *time.Time
	Address     *string
	Phone       *string
}

// UserService defines the profile operations.
type UserService interface {
	// GetProfile returns the user's profile, creating an empty one on
	// first access.
	GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error)

	// UpdateProfile applies the provided fields, creating the profile row
	// if it doesn't exist yet.
	UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*models.UserProfile, error)
}

// userService is the concrete implementation of UserService.
type userService struct {
	users repository.UserRepository
	log   *logger.Logger
}

// NewUserService creates a new instance of UserService.
func NewUserService(users repository.UserRepository, log *logger.Logger) UserService {
	return &userService{users: users, log: log}
}

func (s *userService) GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	profile, err := s.users.FindProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if profile == nil {
		profile = &models.UserProfile{UserID: userID}
		if err := s.users.CreateProfile(ctx, profile); err != nil {
			s.log.Error("Profile insert failed", err, map[string]interface{}{
				"user_id": userID,
			})
			return nil, fmt.Errorf("failed to create profile: %w", err)
		}
		s.log.Debug("Created empty profile", map[string]interface{}{
			"user_id": userID,
		})
	}

	return profile, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*models.UserProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Only provided fields change; absent ones keep their current value.
	if update.DateOfBirth != nil {
		profile.DateOfBirth = update.DateOfBirth
	}
	if update.Address != nil {
		profile.Address = update.Address
	}
	if update.Phone != nil {
		profile.Phone = update.Phone
	}

	if err := s.users.UpdateProfile(ctx, profile); err != nil {
		s.log.Error("Profile update failed", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.log.Info("Profile updated", map[string]interface{}{
		"user_id": userID,
	})

	return profile, nil
}
