package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/join-board/internal/models"
)

// DocumentContactRepository is a ContactRepository over the user database document
type DocumentContactRepository struct {
	db UserDatabaseRepository
}

// ErrContactNotFound is returned when the user has no contact with the requested ID.
var ErrContactNotFound = errors.New("contact repository: contact not found")

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db UserDatabaseRepository) ContactRepository {
	return &DocumentContactRepository{db: db}
}

// List returns the user's contacts in stored order
func (r *DocumentContactRepository) List(ctx context.Context, userID uint64) ([]models.Contact, error) {
	db, err := r.db.Load(ctx)
	if err != nil {
		return nil, err
	}
	user := db.FindByID(userID)
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user.Contacts, nil
}

// FindByID finds a contact by ID
func (r *DocumentContactRepository) FindByID(ctx context.Context, userID uint64, contactID string) (*models.Contact, error) {
	db, err := r.db.Load(ctx)
	if err != nil {
		return nil, err
	}
	user := db.FindByID(userID)
	if user == nil {
		return nil, ErrUserNotFound
	}
	_, contact := user.FindContact(contactID)
	if contact == nil {
		return nil, ErrContactNotFound
	}
	return contact, nil
}

// Create appends a contact to the user's list
func (r *DocumentContactRepository) Create(ctx context.Context, userID uint64, contact *models.Contact) error {
	_, err := r.db.Update(ctx, func(db *models.UserDatabase) error {
		user := db.FindByID(userID)
		if user == nil {
			return ErrUserNotFound
		}
		user.Contacts = append(user.Contacts, *contact)
		return nil
	})
	return err
}

// EnsureSelf adds the user's own contact unless a matching one exists
func (r *DocumentContactRepository) EnsureSelf(ctx context.Context, userID uint64, self models.Contact) (bool, error) {
	added := false
	_, err := r.db.Update(ctx, func(db *models.UserDatabase) error {
		added = false
		user := db.FindByID(userID)
		if user == nil {
			return ErrUserNotFound
		}
		if user.HasContactLike(self.Name, self.Email, "") {
			return nil
		}
		user.Contacts = append(user.Contacts, self)
		added = true
		return nil
	})
	return added, err
}

// Update applies fn to the stored contact and refreshes the copies held by assignees
func (r *DocumentContactRepository) Update(ctx context.Context, userID uint64, contactID string, fn func(contact *models.Contact) error) (*models.Contact, error) {
	var updated models.Contact
	_, err := r.db.Update(ctx, func(db *models.UserDatabase) error {
		user := db.FindByID(userID)
		if user == nil {
			return ErrUserNotFound
		}
		_, contact := user.FindContact(contactID)
		if contact == nil {
			return ErrContactNotFound
		}
		if err := fn(contact); err != nil {
			return err
		}
		for ti := range user.Tasks {
			for ai := range user.Tasks[ti].Assignees {
				a := &user.Tasks[ti].Assignees[ai]
				if a.ContactID == contactID {
					a.Name = contact.Name
					a.Color = contact.Color
				}
			}
		}
		updated = *contact
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a contact and unassigns it from the user's tasks
func (r *DocumentContactRepository) Delete(ctx context.Context, userID uint64, contactID string) error {
	_, err := r.db.Update(ctx, func(db *models.UserDatabase) error {
		user := db.FindByID(userID)
		if user == nil {
			return ErrUserNotFound
		}
		i, _ := user.FindContact(contactID)
		if i < 0 {
			return ErrContactNotFound
		}
		user.Contacts = append(user.Contacts[:i], user.Contacts[i+1:]...)
		for ti := range user.Tasks {
			kept := user.Tasks[ti].Assignees[:0]
			for _, a := range user.Tasks[ti].Assignees {
				if a.ContactID != contactID {
					kept = append(kept, a)
				}
			}
			user.Tasks[ti].Assignees = kept
		}
		return nil
	})
	return err
}
