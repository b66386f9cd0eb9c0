package domain

import (
	"strings"
	"time"
)

// Employee is a staff record.
type Employee struct {
	ID         string     `json:"id,omitempty" yaml:"id,omitempty"`
	Name       string     `json:"name" yaml:"name"`
	Email      string     `json:"email" yaml:"email"`
	Phone      string     `json:"phone" yaml:"phone"`
	Position   string     `json:"position" yaml:"position"`
	Department Department `json:"department" yaml:"department"`
	HireDate   Date       `json:"hireDate" yaml:"hireDate"`
	Status     Status     `json:"status" yaml:"status"`
}

// EmployeePatch holds the employee fields an update may change.
type EmployeePatch struct {
	Name       *string
	Email      *string
	Phone      *string
	Position   *string
	Department *Department
	Status     *Status
}

// NewEmployee validates draft and stamps it with id.
func NewEmployee(id string, draft Employee, now time.Time) (Employee, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Employee{}, ErrInvalidID
	}
	emp := draft.Normalize()
	if err := emp.Validate(); err != nil {
		return Employee{}, err
	}
	return emp.Stamp(id, now), nil
}

// RecordID returns the employee id.
func (e Employee) RecordID() string { return e.ID }

// Normalize trims text fields and fills form defaults.
func (e Employee) Normalize() Employee {
	e.Name = strings.TrimSpace(e.Name)
	e.Email = strings.TrimSpace(e.Email)
	e.Phone = strings.TrimSpace(e.Phone)
	e.Position = strings.TrimSpace(e.Position)
	e.HireDate = Date(strings.TrimSpace(string(e.HireDate)))
	if dept, err := ParseDepartment(string(e.Department)); err == nil {
		e.Department = dept
	}
	if e.Status == "" {
		e.Status = StatusActive
	} else if status, err := ParseStatus(string(e.Status)); err == nil {
		e.Status = status
	}
	return e
}

// Validate checks required fields and enum values.
func (e Employee) Validate() error {
	switch {
	case strings.TrimSpace(e.Name) == "":
		return ErrInvalidName
	case !validEmail(e.Email):
		return ErrInvalidEmail
	case strings.TrimSpace(e.Phone) == "":
		return ErrInvalidPhone
	case strings.TrimSpace(e.Position) == "":
		return ErrInvalidPosition
	case !e.HireDate.valid():
		return ErrInvalidDate
	}
	if _, err := ParseDepartment(string(e.Department)); err != nil {
		return err
	}
	if _, err := ParseStatus(string(e.Status)); err != nil {
		return err
	}
	return nil
}

// Stamp assigns the identity. The hire date comes from the form and is kept as given.
func (e Employee) Stamp(id string, _ time.Time) Employee {
	e.ID = id
	return e
}

// Apply merges p into a copy of e. ID and HireDate never change.
func (e Employee) Apply(p EmployeePatch) Employee {
	if p.Name != nil {
		e.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		e.Email = strings.TrimSpace(*p.Email)
	}
	if p.Phone != nil {
		e.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Position != nil {
		e.Position = strings.TrimSpace(*p.Position)
	}
	if p.Department != nil {
		e.Department = *p.Department
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	return e
}

// PatchFrom returns a patch that sets every mutable field of e.
func (e Employee) PatchFrom() EmployeePatch {
	return EmployeePatch{
		Name:       &e.Name,
		Email:      &e.Email,
		Phone:      &e.Phone,
		Position:   &e.Position,
		Department: &e.Department,
		Status:     &e.Status,
	}
}
