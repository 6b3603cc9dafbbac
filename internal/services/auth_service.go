package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/clearcove/task-tracker-api/internal/constants"
	"github.com/clearcove/task-tracker-api/internal/models"
	"github.com/clearcove/task-tracker-api/internal/repository"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles registration, login and profile maintenance.
// Credential transport (the JWT itself) is minted at the handler layer.
type AuthService struct {
	userRepo         repository.UserRepository
	adminInviteToken string
}

// NewAuthService creates a new AuthService. adminInviteToken, when
// non-empty, lets registration mint superadmin accounts.
func NewAuthService(userRepo repository.UserRepository, adminInviteToken string) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		adminInviteToken: adminInviteToken,
	}
}

// RegisterInput represents the information to create a new account.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ProfileImageURL string
	// AdminInviteToken elevates the account to superadmin when it matches
	// the configured token.
	AdminInviteToken string
}

// Register creates a new user account.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
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

	role := models.GlobalRoleUser
	if s.adminInviteToken != "" && input.AdminInviteToken == s.adminInviteToken {
		role = models.GlobalRoleSuperAdmin
	}

	user := &models.User{
		Name:            input.Name,
		Email:           email,
		PasswordHash:    string(hashedPassword),
		ProfileImageURL: input.ProfileImageURL,
		Role:            role,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(input.Email)))
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
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateProfileInput is a partial profile update; empty values leave the
// corresponding field unchanged.
type UpdateProfileInput struct {
	Name            string
	Password        string
	ProfileImageURL string
}

// UpdateProfile applies a partial update to the actor's own profile.
func (s *AuthService) UpdateProfile(actor *models.User, input UpdateProfileInput) (*models.User, error) {
	if input.Name != "" {
		actor.Name = input.Name
	}
	if input.ProfileImageURL != "" {
		actor.ProfileImageURL = input.ProfileImageURL
	}
	if input.Password != "" {
		if len(input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		actor.PasswordHash = string(hashed)
	}

	if err := s.userRepo.Update(actor); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return actor, nil
}
