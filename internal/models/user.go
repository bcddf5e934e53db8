package models

import "strings"

type User struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Tasks        []Task    `json:"tasks"`
	Contacts     []Contact `json:"contacts"`

	// LegacyPassword holds a plaintext password from documents written by the
	// old client. It is replaced by PasswordHash on the first successful login.
	LegacyPassword string `json:"password,omitempty"`
}

// FindTask returns the index and a pointer to the task with the given ID.
func (u *User) FindTask(id string) (int, *Task) {
	for i := range u.Tasks {
		if u.Tasks[i].ID == id {
			return i, &u.Tasks[i]
		}
	}
	return -1, nil
}

// FindContact returns the index and a pointer to the contact with the given ID.
func (u *User) FindContact(id string) (int, *Contact) {
	for i := range u.Contacts {
		if u.Contacts[i].ID == id {
			return i, &u.Contacts[i]
		}
	}
	return -1, nil
}

// HasContactLike reports whether a contact shares the email, name or phone of the given one.
func (u *User) HasContactLike(name, email, phone string) bool {
	for _, c := range u.Contacts {
		if (email != "" && strings.EqualFold(c.Email, email)) ||
			(name != "" && c.Name == name) ||
			(phone != "" && c.Phone == phone) {
			return true
		}
	}
	return false
}
