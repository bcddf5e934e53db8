package repository

import (
	"context"

	"github.com/yukikurage/join-board/internal/models"
)

// UserDatabaseRepository loads and mutates the whole user document.
type UserDatabaseRepository interface {
	// Load reads the current document. A store without the key yields an empty database.
	Load(ctx context.Context) (*models.UserDatabase, error)

	// Update runs fn on a fresh copy of the document and persists the result.
	// fn may run more than once when a concurrent writer wins the race.
	Update(ctx context.Context, fn func(db *models.UserDatabase) error) (*models.UserDatabase, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create assigns the next free ID and stores the user. The email must be unused.
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email, ignoring case
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// Update applies fn to the stored user and returns the result
	Update(ctx context.Context, id uint64, fn func(user *models.User) error) (*models.User, error)
}

// TaskRepository defines the interface for task data access. Tasks belong to one user.
type TaskRepository interface {
	// Create appends a task to the user's list
	Create(ctx context.Context, userID uint64, task *models.Task) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, userID uint64, taskID string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(ctx context.Context, userID uint64, filter TaskFilter) ([]models.Task, int64, error)

	// Update applies fn to the stored task and returns the result
	Update(ctx context.Context, userID uint64, taskID string, fn func(task *models.Task) error) (*models.Task, error)

	// Delete removes a task
	Delete(ctx context.Context, userID uint64, taskID string) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Query    string
	Status   *models.TaskStatus
	Page     int
	PageSize int
}

// ContactRepository defines the interface for contact data access. Contacts belong to one user.
type ContactRepository interface {
	// List returns the user's contacts in stored order
	List(ctx context.Context, userID uint64) ([]models.Contact, error)

	// FindByID finds a contact by ID
	FindByID(ctx context.Context, userID uint64, contactID string) (*models.Contact, error)

	// Create appends a contact to the user's list
	Create(ctx context.Context, userID uint64, contact *models.Contact) error

	// EnsureSelf adds the user's own contact unless one with the same name or email exists.
	// It reports whether a contact was added.
	EnsureSelf(ctx context.Context, userID uint64, self models.Contact) (bool, error)

	// Update applies fn to the stored contact and returns the result
	Update(ctx context.Context, userID uint64, contactID string, fn func(contact *models.Contact) error) (*models.Contact, error)

	// Delete removes a contact and unassigns it from the user's tasks
	Delete(ctx context.Context, userID uint64, contactID string) error
}
