package models

import (
	"encoding/json"
	"strings"
)

// UserDatabase is the root document persisted under a single store key. It is
// serialized as a plain JSON array of users.
type UserDatabase struct {
	Users []User
}

func (d UserDatabase) MarshalJSON() ([]byte, error) {
	if d.Users == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d.Users)
}

func (d *UserDatabase) UnmarshalJSON(data []byte) error {
	var users []User
	if err := json.Unmarshal(data, &users); err != nil {
		return err
	}
	for i := range users {
		users[i].relinkAssignees()
	}
	d.Users = users
	return nil
}

// FindByID returns the user with the given ID, or nil.
func (d *UserDatabase) FindByID(id uint64) *User {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i]
		}
	}
	return nil
}

// FindByEmail returns the user with the given email (case-insensitive), or nil.
func (d *UserDatabase) FindByEmail(email string) *User {
	email = strings.TrimSpace(email)
	for i := range d.Users {
		if strings.EqualFold(d.Users[i].Email, email) {
			return &d.Users[i]
		}
	}
	return nil
}

// NextUserID returns one past the highest user ID in the document.
func (d *UserDatabase) NextUserID() uint64 {
	var maxID uint64
	for _, u := range d.Users {
		if u.ID > maxID {
			maxID = u.ID
		}
	}
	return maxID + 1
}

// Add appends a user and returns a pointer to the stored copy.
func (d *UserDatabase) Add(user User) *User {
	d.Users = append(d.Users, user)
	return &d.Users[len(d.Users)-1]
}

// Migrated reports whether decoding converted legacy data that has not been
// written back yet.
func (d *UserDatabase) Migrated() bool {
	for _, u := range d.Users {
		for _, t := range u.Tasks {
			if t.migrated {
				return true
			}
		}
		for _, c := range u.Contacts {
			if c.migrated {
				return true
			}
		}
	}
	return false
}
