package domain

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date rendered as YYYY-MM-DD.
type Date string

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

// ParseDate parses and normalizes a YYYY-MM-DD date.
func ParseDate(raw string) (Date, error) {
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return "", ErrInvalidDate
	}
	return Date(parsed.Format(dateLayout)), nil
}

// Time returns the date at midnight UTC, or the zero time when d is not a valid date.
func (d Date) Time() time.Time {
	parsed, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return parsed
}

// IsZero reports whether d is unset.
func (d Date) IsZero() bool {
	return strings.TrimSpace(string(d)) == ""
}

func (d Date) String() string {
	return string(d)
}

func (d Date) valid() bool {
	_, err := ParseDate(string(d))
	return err == nil
}
