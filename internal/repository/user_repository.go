package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/yukikurage/join-board/internal/models"
)

// DocumentUserRepository is a UserRepository over the user database document
type DocumentUserRepository struct {
	db UserDatabaseRepository
}

var (
	// ErrUserNotFound is returned when no user has the requested ID or email.
	ErrUserNotFound = errors.New("user repository: user not found")
	// ErrEmailTaken is returned when creating a user whose email is already registered.
	ErrEmailTaken = errors.New("user repository: email already registered")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db UserDatabaseRepository) UserRepository {
	return &DocumentUserRepository{db: db}
}

// Create assigns the next free ID and stores the user
func (r *DocumentUserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.TrimSpace(user.Email)
	if user.Tasks == nil {
		user.Tasks = []models.Task{}
	}
	if user.Contacts == nil {
		user.Contacts = []models.Contact{}
	}

	_, err := r.db.Update(ctx, func(db *models.UserDatabase) error {
		if db.FindByEmail(user.Email) != nil {
			return ErrEmailTaken
		}
		user.ID = db.NextUserID()
		db.Add(*user)
		return nil
	})
	return err
}

// FindByID finds a user by ID
func (r *DocumentUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	db, err := r.db.Load(ctx)
	if err != nil {
		return nil, err
	}
	user := db.FindByID(id)
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// FindByEmail finds a user by email
func (r *DocumentUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	db, err := r.db.Load(ctx)
	if err != nil {
		return nil, err
	}
	user := db.FindByEmail(email)
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Update applies fn to the stored user
func (r *DocumentUserRepository) Update(ctx context.Context, id uint64, fn func(user *models.User) error) (*models.User, error) {
	var updated models.User
	_, err := r.db.Update(ctx, func(db *models.UserDatabase) error {
		user := db.FindByID(id)
		if user == nil {
			return ErrUserNotFound
		}
		if err := fn(user); err != nil {
			return err
		}
		updated = *user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
