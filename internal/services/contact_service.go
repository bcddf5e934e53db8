package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/yukikurage/join-board/internal/constants"
	"github.com/yukikurage/join-board/internal/logger"
	"github.com/yukikurage/join-board/internal/models"
	"github.com/yukikurage/join-board/internal/repository"
	"github.com/yukikurage/join-board/internal/utils"
)

var (
	ErrContactNotFound       = errors.New("contact not found")
	ErrColorGenerationFailed = errors.New("failed to generate contact color")
)

// ContactService provides business logic for contact operations.
type ContactService struct {
	contactRepo repository.ContactRepository
	userRepo    repository.UserRepository
	guestEmail  string
	log         *logger.Logger
}

// NewContactService creates a new ContactService.
func NewContactService(contactRepo repository.ContactRepository, userRepo repository.UserRepository, guestEmail string, log *logger.Logger) *ContactService {
	if log == nil {
		log = logger.Nop()
	}
	return &ContactService{
		contactRepo: contactRepo,
		userRepo:    userRepo,
		guestEmail:  guestEmail,
		log:         log.WithComponent("contacts"),
	}
}

// ContactGroup is a run of contacts sharing the same first letter.
type ContactGroup struct {
	Letter   string
	Contacts []models.Contact
}

// ListContacts returns the user's contacts sorted by name. Registered users get their own
// entry added on first listing. Load failures are logged and yield an empty list.
func (s *ContactService) ListContacts(ctx context.Context, userID uint64) []models.Contact {
	log := s.log.WithUserID(userID)

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		log.Warnw("failed to load user for contacts", "error", err)
		return []models.Contact{}
	}

	if !isGuest(user, s.guestEmail) {
		self := models.Contact{
			ID:    uuid.NewString(),
			Name:  user.Name,
			Email: user.Email,
			Color: constants.SelfContactColor,
		}
		if added, err := s.contactRepo.EnsureSelf(ctx, userID, self); err != nil {
			log.Warnw("failed to add own contact", "error", err)
		} else if added {
			log.Infow("added own contact")
		}
	}

	contacts, err := s.contactRepo.List(ctx, userID)
	if err != nil {
		log.Warnw("failed to load contacts", "error", err)
		return []models.Contact{}
	}

	sorted := make([]models.Contact, len(contacts))
	copy(sorted, contacts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})
	return sorted
}

// GroupContacts splits name-sorted contacts into runs by first letter.
func GroupContacts(contacts []models.Contact) []ContactGroup {
	groups := []ContactGroup{}
	for _, c := range contacts {
		letter := utils.FirstLetter(c.Name)
		if n := len(groups); n > 0 && groups[n-1].Letter == letter {
			groups[n-1].Contacts = append(groups[n-1].Contacts, c)
			continue
		}
		groups = append(groups, ContactGroup{Letter: letter, Contacts: []models.Contact{c}})
	}
	return groups
}

// CreateContactInput represents parameters to create a new contact.
type CreateContactInput struct {
	Name  string `validate:"required,min=2"`
	Email string `validate:"omitempty,email"`
	Phone string `validate:"omitempty,max=32"`
	Color string `validate:"omitempty,hexcolor"`
}

// CreateContact adds a contact. A missing color is chosen at random.
func (s *ContactService) CreateContact(ctx context.Context, userID uint64, input CreateContactInput) (*models.Contact, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	color := input.Color
	if color == "" {
		var err error
		if color, err = utils.RandomColor(); err != nil {
			return nil, ErrColorGenerationFailed
		}
	}

	contact := &models.Contact{
		ID:    uuid.NewString(),
		Name:  input.Name,
		Email: input.Email,
		Phone: strings.TrimSpace(input.Phone),
		Color: color,
	}

	if err := s.contactRepo.Create(ctx, userID, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return contact, nil
}

// GetContact returns one contact.
func (s *ContactService) GetContact(ctx context.Context, userID uint64, contactID string) (*models.Contact, error) {
	contact, err := s.contactRepo.FindByID(ctx, userID, contactID)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}
	return contact, nil
}

// UpdateContactInput represents a partial contact update.
type UpdateContactInput struct {
	Name  *string `validate:"omitempty,min=2"`
	Email *string `validate:"omitempty,email"`
	Phone *string `validate:"omitempty,max=32"`
	Color *string `validate:"omitempty,hexcolor"`
}

// UpdateContact changes the given fields of a contact.
func (s *ContactService) UpdateContact(ctx context.Context, userID uint64, contactID string, input UpdateContactInput) (*models.Contact, error) {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		input.Name = &name
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	contact, err := s.contactRepo.Update(ctx, userID, contactID, func(c *models.Contact) error {
		if input.Name != nil {
			c.Name = *input.Name
		}
		if input.Email != nil {
			c.Email = strings.TrimSpace(*input.Email)
		}
		if input.Phone != nil {
			c.Phone = strings.TrimSpace(*input.Phone)
		}
		if input.Color != nil {
			c.Color = *input.Color
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	return contact, nil
}

// DeleteContact removes a contact and its task assignments.
func (s *ContactService) DeleteContact(ctx context.Context, userID uint64, contactID string) error {
	if err := s.contactRepo.Delete(ctx, userID, contactID); err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return ErrContactNotFound
		}
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil
}
