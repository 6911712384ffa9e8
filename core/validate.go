package core

import (
	"fmt"
	"net/mail"
	"strings"
)

// Validator checks and normalizes email addresses. It satisfies
// userinfo.EmailValidator, so the same implementation serves the normalizer
// and the reconciler.
type Validator interface {
	ValidateEmail(email string) error
	NormalizeEmail(email string) string
}

// DefaultValidator implements Validator with the stdlib address parser.
type DefaultValidator struct{}

func (v *DefaultValidator) ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	// Reject the "Name <addr>" form, only a bare address is acceptable.
	if addr.Address != strings.TrimSpace(email) {
		return fmt.Errorf("invalid email format: %q", email)
	}
	return nil
}

func (v *DefaultValidator) NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
