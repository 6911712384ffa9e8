package userinfo

import (
	"strings"

	"github.com/caasmo/accountlink/db"
)

// EmailValidator is the host capability for checking and normalizing email
// addresses. core.DefaultValidator satisfies it.
type EmailValidator interface {
	// ValidateEmail returns nil when the address is syntactically valid.
	ValidateEmail(email string) error
	// NormalizeEmail returns the canonical form of the address
	// (trimmed, lowercased).
	NormalizeEmail(email string) string
}

// AccountFields derives the canonical account field set from a userinfo
// record.
//
// The email is accepted only when it passes validation, otherwise it stays
// empty. The login candidate is picked in priority order: preferred_username,
// then a lowercased given_name, then the local part of the email. The
// candidate is transliterated to ASCII because the account store rejects
// non-ASCII login names. All outputs are trimmed; absent sources become empty
// strings.
//
// Pure function: calling it twice on the same input yields the same result.
func AccountFields(ui UserInfo, v EmailValidator) db.AccountFields {
	var email string
	if ui.Email != "" && v.ValidateEmail(ui.Email) == nil {
		email = v.NormalizeEmail(ui.Email)
	}

	var login, display, first, last string

	// Prefer the username the subject chose at the provider.
	if ui.PreferredUsername != "" {
		login = ui.PreferredUsername
		display = login
	}

	if display == "" && ui.Name != "" {
		display = ui.Name
	}

	if ui.GivenName != "" {
		first = ui.GivenName

		if login == "" {
			login = strings.ToLower(first)
		}
	}

	if ui.FamilyName != "" {
		last = ui.FamilyName
	}

	// The store does not allow non-ASCII login names. Transliterate so a
	// name like "jürgen" still yields a usable login instead of forcing
	// the email fallback.
	login = Transliterate(login)

	// Last resort: the local part of the email address.
	if login == "" && email != "" {
		if at := strings.IndexByte(email, '@'); at > 0 {
			login = email[:at]
		}
	}

	return db.AccountFields{
		Email:       strings.TrimSpace(email),
		Login:       strings.TrimSpace(login),
		FirstName:   strings.TrimSpace(first),
		LastName:    strings.TrimSpace(last),
		DisplayName: strings.TrimSpace(display),
		Nickname:    strings.TrimSpace(login),
	}
}

// Extended collects the provider-supplied claims that have no slot in the
// account schema. Absent claims contribute nothing; the phone sub-claims are
// only carried when phone_number itself is present.
func Extended(ui UserInfo) db.ExtendedAttributes {
	var ext db.ExtendedAttributes

	if ui.PhoneNumber != "" {
		ext.PhoneNumber = ui.PhoneNumber
		ext.PhoneNumberVerified = ui.PhoneNumberVerified
		ext.PhoneType = ui.PhoneType
	}

	if len(ui.Address) > 0 {
		ext.Address = ui.Address
	}
	if len(ui.Twitter) > 0 {
		ext.Twitter = ui.Twitter
	}
	if len(ui.Facebook) > 0 {
		ext.Facebook = ui.Facebook
	}
	if len(ui.LinkedIn) > 0 {
		ext.LinkedIn = ui.LinkedIn
	}

	return ext
}
