package db

import "time"

// Account represents a local account from the database.
// Timestamps (Created and Updated) use RFC3339 format in UTC timezone.
// Example: "2024-03-07T15:04:05Z"
type Account struct {
	ID          string
	Email       string
	Login       string
	FirstName   string
	LastName    string
	DisplayName string
	Nickname    string
	Created     time.Time
	Updated     time.Time
}

// AccountFields is the canonical field set derived from a provider userinfo
// record. It is what gets written to the store on create or update.
//
// All string fields are trimmed. Fields with no source value are empty
// strings, never unset. Email is either a normalized valid address or empty.
type AccountFields struct {
	// ID is empty on create. On update it carries the id of the account
	// being updated, so the store updates in place even when login or
	// email changed.
	ID          string
	Email       string
	Login       string
	FirstName   string
	LastName    string
	DisplayName string
	Nickname    string
	// Password is only set during creation. The store requires accounts to
	// have one; it is generated, never surfaced, and stored hashed.
	Password string
}

// ExtendedAttributes holds provider-supplied data that has no slot in the
// account schema. It is persisted as an opaque blob in the per-account
// metadata store, not merged into canonical fields.
//
// Absent claims stay at their zero value and are omitted when serialized.
type ExtendedAttributes struct {
	PhoneNumber string `json:"phone_number,omitempty"`
	// PhoneNumberVerified is only carried when PhoneNumber is present.
	PhoneNumberVerified *bool          `json:"phone_number_verified,omitempty"`
	PhoneType           string         `json:"phone_type,omitempty"`
	Address             map[string]any `json:"address,omitempty"`
	Twitter             map[string]any `json:"twitter,omitempty"`
	Facebook            map[string]any `json:"facebook,omitempty"`
	LinkedIn            map[string]any `json:"linkedin,omitempty"`
}

// IsZero reports whether no attribute is set at all.
func (e ExtendedAttributes) IsZero() bool {
	return e.PhoneNumber == "" &&
		e.PhoneNumberVerified == nil &&
		e.PhoneType == "" &&
		len(e.Address) == 0 &&
		len(e.Twitter) == 0 &&
		len(e.Facebook) == 0 &&
		len(e.LinkedIn) == 0
}
