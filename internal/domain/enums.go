package domain

import (
	"slices"
	"strings"
)

// Role describes an item's access role.
type Role string

// Role values.
const (
	RoleUser      Role = "User"
	RoleModerator Role = "Moderator"
	RoleAdmin     Role = "Admin"
)

// Status describes whether an item or employee is active.
type Status string

// Status values.
const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Department is one of the fixed employee departments.
type Department string

// Department values.
const (
	DepartmentTechnology      Department = "Technology"
	DepartmentSales           Department = "Sales"
	DepartmentMarketing       Department = "Marketing"
	DepartmentFinance         Department = "Finance"
	DepartmentHumanResources  Department = "Human Resources"
	DepartmentOperations      Department = "Operations"
	DepartmentCustomerService Department = "Customer Service"
)

// Stage is an opportunity's position in the sales pipeline.
type Stage string

// Stage values.
const (
	StageLead        Stage = "lead"
	StageNegotiation Stage = "negotiation"
	StageClosedWon   Stage = "closed-won"
	StageClosedLost  Stage = "closed-lost"
)

// Priority ranks an opportunity.
type Priority string

// Priority values.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var (
	validRoles       = []Role{RoleUser, RoleModerator, RoleAdmin}
	validStatuses    = []Status{StatusActive, StatusInactive}
	validDepartments = []Department{
		DepartmentTechnology,
		DepartmentSales,
		DepartmentMarketing,
		DepartmentFinance,
		DepartmentHumanResources,
		DepartmentOperations,
		DepartmentCustomerService,
	}
	validStages     = []Stage{StageLead, StageNegotiation, StageClosedWon, StageClosedLost}
	validPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}
)

// Roles returns the supported roles.
func Roles() []Role { return slices.Clone(validRoles) }

// Statuses returns the supported statuses.
func Statuses() []Status { return slices.Clone(validStatuses) }

// Departments returns the supported departments.
func Departments() []Department { return slices.Clone(validDepartments) }

// Stages returns the supported opportunity stages.
func Stages() []Stage { return slices.Clone(validStages) }

// Priorities returns the supported priorities.
func Priorities() []Priority { return slices.Clone(validPriorities) }

// ParseRole resolves a role case-insensitively.
func ParseRole(raw string) (Role, error) {
	if v, ok := matchFold(validRoles, raw); ok {
		return v, nil
	}
	return "", ErrInvalidRole
}

// ParseStatus resolves a status case-insensitively.
func ParseStatus(raw string) (Status, error) {
	if v, ok := matchFold(validStatuses, raw); ok {
		return v, nil
	}
	return "", ErrInvalidStatus
}

// ParseDepartment resolves a department case-insensitively.
func ParseDepartment(raw string) (Department, error) {
	if v, ok := matchFold(validDepartments, raw); ok {
		return v, nil
	}
	return "", ErrInvalidDepartment
}

// ParseStage resolves an opportunity stage case-insensitively.
func ParseStage(raw string) (Stage, error) {
	if v, ok := matchFold(validStages, raw); ok {
		return v, nil
	}
	return "", ErrInvalidStatus
}

// ParsePriority resolves a priority case-insensitively.
func ParsePriority(raw string) (Priority, error) {
	if v, ok := matchFold(validPriorities, raw); ok {
		return v, nil
	}
	return "", ErrInvalidPriority
}

// Closed reports whether the stage ends the pipeline.
func (s Stage) Closed() bool {
	return s == StageClosedWon || s == StageClosedLost
}

func matchFold[T ~string](values []T, raw string) (T, bool) {
	raw = strings.TrimSpace(raw)
	for _, v := range values {
		if strings.EqualFold(string(v), raw) {
			return v, true
		}
	}
	var zero T
	return zero, false
}
