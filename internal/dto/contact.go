package dto

import (
	"github.com/yukikurage/join-board/internal/models"
	"github.com/yukikurage/join-board/internal/utils"
)

// ContactDTO represents a contact in API responses
type ContactDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Color    string `json:"color"`
	Initials string `json:"initials"`
}

// ContactGroupDTO is the list section for one first letter
type ContactGroupDTO struct {
	Letter   string       `json:"letter"`
	Contacts []ContactDTO `json:"contacts"`
}

// ContactListResponse carries the sorted contacts and the same contacts grouped by letter
type ContactListResponse struct {
	Contacts []ContactDTO      `json:"contacts"`
	Groups   []ContactGroupDTO `json:"groups"`
}

// ToContactDTO converts a contact
func ToContactDTO(c models.Contact) ContactDTO {
	return ContactDTO{
		ID:       c.ID,
		Name:     c.Name,
		Email:    c.Email,
		Phone:    c.Phone,
		Color:    c.Color,
		Initials: utils.Initials(c.Name),
	}
}

// ToContactDTOs converts a slice of contacts
func ToContactDTOs(contacts []models.Contact) []ContactDTO {
	items := make([]ContactDTO, len(contacts))
	for i, c := range contacts {
		items[i] = ToContactDTO(c)
	}
	return items
}

// ToContactGroupDTO converts one letter group
func ToContactGroupDTO(letter string, contacts []models.Contact) ContactGroupDTO {
	return ContactGroupDTO{
		Letter:   letter,
		Contacts: ToContactDTOs(contacts),
	}
}
