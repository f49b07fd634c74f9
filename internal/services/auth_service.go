package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/openlot/propfinder/api/internal/auth"
	"github.com/openlot/propfinder/api/internal/logger"
	"github.com/openlot/propfinder/api/internal/models"
	"github.com/openlot/propfinder/api/internal/repository"
)

// Service-level auth errors
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrOAuthNotConfigured = errors.New("google oauth not configured")
	ErrOAuthExchange      = errors.New("google authentication failed")
)

// RegisterInput carries a new account's credentials.
type RegisterInput struct {
	Email    string
	Username *string
	Password string
}

// AuthService defines registration, login, and token validation operations.
// All successful flows end in an issued bearer token whose subject is the
// user's email.
type AuthService interface {
	// Register creates a password user and returns an access token.
	// Returns ErrEmailTaken or ErrUsernameTaken on uniqueness conflicts.
	Register(ctx context.Context, input RegisterInput) (string, error)

	// Login authenticates email+password and returns an access token.
	// Returns ErrInvalidCredentials for unknown users, OAuth-only users,
	// and wrong passwords alike.
	Login(ctx context.Context, email, password string) (string, error)

	// LoginWithGoogle exchanges an authorization code, creating or linking
	// the account as needed, and returns an access token.
	// Returns ErrOAuthNotConfigured when credentials are absent and
	// ErrOAuthExchange when the exchange fails.
	LoginWithGoogle(ctx context.Context, code string) (string, error)

	// UserFromToken validates a bearer token and loads its user.
	// Returns ErrUserNotFound when the subject no longer exists.
	UserFromToken(ctx context.Context, token string) (*models.User, error)
}

// authService is the concrete implementation of AuthService.
type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
	google auth.GoogleVerifier // nil when OAuth is not configured
	log    *logger.Logger
}

// NewAuthService creates a new instance of AuthService. google may be nil,
// in which case LoginWithGoogle reports ErrOAuthNotConfigured.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, google auth.GoogleVerifier, log *logger.Logger) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
		google: google,
		log:    log,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (string, error) {
	existing, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return "", fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return "", ErrEmailTaken
	}

	if input.Username != nil {
		existing, err := s.users.FindByUsername(ctx, *input.Username)
		if err != nil {
			return "", fmt.Errorf("failed to check username: %w", err)
		}
		if existing != nil {
			return "", ErrUsernameTaken
		}
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: &hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.log.Error("User insert failed", err, map[string]interface{}{
			"email": input.Email,
		})
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
	})

	return s.tokens.Issue(user.Email)
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	// OAuth-only accounts have no password hash; reject them the same way
	// as unknown emails so login failures don't leak account existence.
	if user == nil || user.PasswordHash == nil {
		return "", ErrInvalidCredentials
	}
	if !auth.CheckPasswordHash(password, *user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	s.log.Info("User logged in", map[string]interface{}{
		"user_id": user.ID,
	})

	return s.tokens.Issue(user.Email)
}

func (s *authService) LoginWithGoogle(ctx context.Context, code string) (string, error) {
	if s.google == nil {
		return "", ErrOAuthNotConfigured
	}

	info, err := s.google.Exchange(ctx, code)
	if err != nil {
		s.log.Warn("Google code exchange failed", map[string]interface{}{
			"error": err.Error(),
		})
		return "", fmt.Errorf("%w: %v", ErrOAuthExchange, err)
	}

	user, err := s.users.FindByGoogleID(ctx, info.ID)
	if err != nil {
		return "", fmt.Errorf("failed to look up google user: %w", err)
	}

	if user == nil {
		// Link to an existing account with the same email, or create one.
		user, err = s.users.FindByEmail(ctx, info.Email)
		if err != nil {
			return "", fmt.Errorf("failed to look up user by email: %w", err)
		}

		if user != nil {
			if err := s.users.LinkGoogleID(ctx, user.ID, info.ID); err != nil {
				return "", fmt.Errorf("failed to link google account: %w", err)
			}
			s.log.Info("Linked google account to existing user", map[string]interface{}{
				"user_id": user.ID,
			})
		} else {
			var username *string
			if info.Name != "" {
				username = &info.Name
			}
			user = &models.User{
				Email:    info.Email,
				Username: username,
				GoogleID: &info.ID,
			}
			if err := s.users.Create(ctx, user); err != nil {
				return "", fmt.Errorf("failed to create google user: %w", err)
			}
			s.log.Info("Created user from google account", map[string]interface{}{
				"user_id": user.ID,
			})
		}
	}

	return s.tokens.Issue(user.Email)
}

func (s *authService) UserFromToken(ctx context.Context, token string) (*models.User, error) {
	email, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
