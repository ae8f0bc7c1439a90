package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yukikurage/pickup-line-api/internal/constants"
	"github.com/yukikurage/pickup-line-api/internal/models"
	"github.com/yukikurage/pickup-line-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrMissingFields        = errors.New("missing required fields")
	ErrUsernameTaken        = errors.New("username already exists")
	ErrEmailTaken           = errors.New("email already exists")
	ErrAccountExists        = errors.New("username or email already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
)

// SettingsDefaults seed the settings row created at registration.
type SettingsDefaults struct {
	PreferredModel string
	Temperature    float64
	MaxTokens      int
}

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	defaults SettingsDefaults
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, defaults SettingsDefaults) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		defaults: defaults,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a new user along with their default settings.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.CreateWithSettings(user, s.newSettings()); err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			// lost a race with a concurrent registration
			return nil, ErrAccountExists
		case errors.Is(err, repository.ErrCreateUser), errors.Is(err, repository.ErrCreateSettings):
			return nil, ErrFailedToCreateUser
		default:
			return nil, fmt.Errorf("failed to complete registration: %w", err)
		}
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	if input.Username == "" || input.Password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// EnsureUser registers the user unless the username already exists.
// It reports whether a new user was created.
func (s *AuthService) EnsureUser(input RegisterInput) (*models.User, bool, error) {
	existing, err := s.userRepo.FindByUsername(strings.TrimSpace(input.Username))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to find user: %w", err)
	}

	user, err := s.Register(input)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *AuthService) newSettings() *models.Settings {
	return &models.Settings{
		PreferredModel:        s.defaults.PreferredModel,
		Temperature:           s.defaults.Temperature,
		MaxTokens:             s.defaults.MaxTokens,
		DefaultDirtinessLevel: constants.DefaultDirtinessLevel,
		IncludeEmojis:         true,
		PreferredStyle:        constants.DefaultStyle,
	}
}
