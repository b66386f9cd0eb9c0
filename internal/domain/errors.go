package domain

import "errors"

var (
	ErrInvalidID          = errors.New("invalid id")
	ErrInvalidKind        = errors.New("invalid kind")
	ErrInvalidName        = errors.New("invalid name")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidPhone       = errors.New("invalid phone")
	ErrInvalidPosition    = errors.New("invalid position")
	ErrInvalidDepartment  = errors.New("invalid department")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidTitle       = errors.New("invalid title")
	ErrInvalidClient      = errors.New("invalid client")
	ErrInvalidValue       = errors.New("invalid value")
	ErrInvalidPriority    = errors.New("invalid priority")
	ErrInvalidDescription = errors.New("invalid description")
)

// IsValidation reports whether err is one of the field validation errors above.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidID, ErrInvalidKind, ErrInvalidName, ErrInvalidEmail, ErrInvalidPhone,
		ErrInvalidPosition, ErrInvalidDepartment, ErrInvalidRole, ErrInvalidStatus, ErrInvalidDate,
		ErrInvalidTitle, ErrInvalidClient, ErrInvalidValue, ErrInvalidPriority, ErrInvalidDescription,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
