package domain

import (
	"strings"
	"time"
)

// Item is a generic user-like record.
type Item struct {
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string `json:"name" yaml:"name"`
	Email     string `json:"email" yaml:"email"`
	Role      Role   `json:"role" yaml:"role"`
	Status    Status `json:"status" yaml:"status"`
	CreatedAt Date   `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

// ItemPatch holds the item fields an update may change. Nil fields are left untouched.
type ItemPatch struct {
	Name   *string
	Email  *string
	Role   *Role
	Status *Status
}

// NewItem validates draft and stamps it with id and the creation date taken from now.
func NewItem(id string, draft Item, now time.Time) (Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Item{}, ErrInvalidID
	}
	item := draft.Normalize()
	if err := item.Validate(); err != nil {
		return Item{}, err
	}
	return item.Stamp(id, now), nil
}

// RecordID returns the item id.
func (i Item) RecordID() string { return i.ID }

// Normalize trims text fields and fills form defaults.
func (i Item) Normalize() Item {
	i.Name = strings.TrimSpace(i.Name)
	i.Email = strings.TrimSpace(i.Email)
	if i.Role == "" {
		i.Role = RoleUser
	} else if role, err := ParseRole(string(i.Role)); err == nil {
		i.Role = role
	}
	if i.Status == "" {
		i.Status = StatusActive
	} else if status, err := ParseStatus(string(i.Status)); err == nil {
		i.Status = status
	}
	return i
}

// Validate checks required fields and enum values.
func (i Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrInvalidName
	}
	if !validEmail(i.Email) {
		return ErrInvalidEmail
	}
	if _, err := ParseRole(string(i.Role)); err != nil {
		return err
	}
	if _, err := ParseStatus(string(i.Status)); err != nil {
		return err
	}
	return nil
}

// Stamp assigns the identity and creation date.
func (i Item) Stamp(id string, now time.Time) Item {
	i.ID = id
	i.CreatedAt = DateOf(now)
	return i
}

// Apply merges p into a copy of i. ID and CreatedAt never change.
func (i Item) Apply(p ItemPatch) Item {
	if p.Name != nil {
		i.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		i.Email = strings.TrimSpace(*p.Email)
	}
	if p.Role != nil {
		i.Role = *p.Role
	}
	if p.Status != nil {
		i.Status = *p.Status
	}
	return i
}

// PatchFrom returns a patch that sets every mutable field of i.
func (i Item) PatchFrom() ItemPatch {
	return ItemPatch{Name: &i.Name, Email: &i.Email, Role: &i.Role, Status: &i.Status}
}

func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}
