package domain

import (
	"fmt"
	"strings"
)

// Subject identifies the person being turned into an action figure.
// The first name is the only required field; the last name appears on
// the packaging when provided.
type Subject struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FullName returns the display name printed on the packaging: the first
// name alone when the last name is blank, otherwise "first last".
func (s Subject) FullName() string {
	first := strings.TrimSpace(s.FirstName)
	last := strings.TrimSpace(s.LastName)
	if last == "" {
		return first
	}
	return first + " " + last
}

// Validate checks the subject before any generation is attempted.
func (s Subject) Validate(lastNameRequired bool) error {
	if strings.TrimSpace(s.FirstName) == "" {
		return fmt.Errorf("%w: first name is required", ErrInvalidInput)
	}
	if lastNameRequired && strings.TrimSpace(s.LastName) == "" {
		return fmt.Errorf("%w: last name is required", ErrInvalidInput)
	}
	return nil
}
