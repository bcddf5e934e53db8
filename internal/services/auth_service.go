package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/yukikurage/join-board/internal/constants"
	"github.com/yukikurage/join-board/internal/logger"
	"github.com/yukikurage/join-board/internal/models"
	"github.com/yukikurage/join-board/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooWeak      = errors.New("password must have at least 8 characters and one uppercase letter")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo   repository.UserRepository
	guestEmail string
	log        *logger.Logger
}

// NewAuthService creates a new AuthService. guestEmail identifies the shared guest account.
func NewAuthService(userRepo repository.UserRepository, guestEmail string, log *logger.Logger) *AuthService {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthService{
		userRepo:   userRepo,
		guestEmail: guestEmail,
		log:        log.WithComponent("auth"),
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Name            string `validate:"required,min=2"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required"`
	ConfirmPassword string
}

// Signup creates a new user with an empty board.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if !strongPassword(input.Password) {
		return nil, ErrPasswordTooWeak
	}
	if input.Password != input.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateUser, err)
	}

	s.log.Infow("user signed up", "user_id", user.ID)
	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user. A plaintext password
// imported from the old client is accepted once and replaced by a bcrypt hash.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	switch {
	case user.PasswordHash != "":
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
			return nil, ErrInvalidCredentials
		}
	case user.LegacyPassword != "":
		if subtle.ConstantTimeCompare([]byte(user.LegacyPassword), []byte(input.Password)) != 1 {
			return nil, ErrInvalidCredentials
		}
		s.upgradeLegacyPassword(ctx, user.ID, input.Password)
	default:
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *AuthService) upgradeLegacyPassword(ctx context.Context, userID uint64, password string) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Warnw("failed to hash legacy password", "user_id", userID, "error", err)
		return
	}
	_, err = s.userRepo.Update(ctx, userID, func(u *models.User) error {
		u.PasswordHash = string(hashed)
		u.LegacyPassword = ""
		return nil
	})
	if err != nil {
		s.log.Warnw("failed to upgrade legacy password", "user_id", userID, "error", err)
		return
	}
	s.log.Infow("upgraded legacy password", "user_id", userID)
}

// GuestLogin returns the shared guest account, creating it on first use.
func (s *AuthService) GuestLogin(ctx context.Context) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, s.guestEmail)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to find guest user: %w", err)
	}

	guest := &models.User{Name: constants.GuestName, Email: s.guestEmail}
	if err := s.userRepo.Create(ctx, guest); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return s.userRepo.FindByEmail(ctx, s.guestEmail)
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateUser, err)
	}

	s.log.Infow("created guest user", "user_id", guest.ID)
	return guest, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// IsGuest reports whether user is the shared guest account.
func (s *AuthService) IsGuest(user *models.User) bool {
	return isGuest(user, s.guestEmail)
}

func isGuest(user *models.User, guestEmail string) bool {
	return strings.EqualFold(user.Email, guestEmail) || user.Name == constants.GuestName
}

func strongPassword(password string) bool {
	if len([]rune(password)) < constants.MinPasswordLength {
		return false
	}
	for _, r := range password {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
