package domain

import "strings"

// Kind identifies one record collection.
type Kind string

// Kind values, in fetch order.
const (
	KindItem        Kind = "item"
	KindEmployee    Kind = "employee"
	KindOpportunity Kind = "opportunity"
)

// Kinds returns every record kind in the order collections are fetched and displayed.
func Kinds() []Kind {
	return []Kind{KindItem, KindEmployee, KindOpportunity}
}

// ParseKind resolves a kind from its singular or plural spelling.
func ParseKind(raw string) (Kind, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for _, kind := range Kinds() {
		if raw == string(kind) || raw == kind.Plural() {
			return kind, nil
		}
	}
	return "", ErrInvalidKind
}

// Plural returns the collection name used in API paths.
func (k Kind) Plural() string {
	switch k {
	case KindItem:
		return "items"
	case KindEmployee:
		return "employees"
	case KindOpportunity:
		return "opportunities"
	default:
		return string(k) + "s"
	}
}

// Label returns a capitalized display name.
func (k Kind) Label() string {
	switch k {
	case KindItem:
		return "Item"
	case KindEmployee:
		return "Employee"
	case KindOpportunity:
		return "Opportunity"
	default:
		return string(k)
	}
}
