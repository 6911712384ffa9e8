package db

import (
	"errors"
	"time"
)

// ErrAccountNotFound is returned by lookups when no matching record exists
// and the caller asked for exactly one.
var ErrAccountNotFound = errors.New("account not found")

// DbAccount defines the account-record operations this module requires from
// the host store. The concrete implementation (e.g. *zombiezen.Db) must
// satisfy this interface.
type DbAccount interface {
	// GetAccountByEmail returns the single account with the given email,
	// nil if none exists. An error is only returned for store failures.
	GetAccountByEmail(email string) (*Account, error)

	// GetAccountByID returns the account with the given id, nil if none
	// exists.
	GetAccountByID(id string) (*Account, error)

	// AccountExistsWithLogin reports whether any account already uses the
	// given login name.
	AccountExistsWithLogin(login string) (bool, error)

	// CreateAccount inserts a new account from the canonical fields and
	// returns the stored record, as the store sees it.
	CreateAccount(fields AccountFields) (*Account, error)

	// UpdateAccount updates the account identified by fields.ID in place
	// and returns the stored record.
	UpdateAccount(fields AccountFields) (*Account, error)

	// FindAccountsByMeta returns up to limit accounts whose metadata entry
	// under key equals value.
	FindAccountsByMeta(key, value string, limit int) ([]*Account, error)
}

// DbMeta is the per-account metadata key-value store. Each method is a direct
// pass-through; linkage and extended-attribute semantics live in core.
type DbMeta interface {
	// GetMeta returns the value stored under key for the account, or ""
	// when no entry exists.
	GetMeta(accountID, key string) (string, error)
	SetMeta(accountID, key, value string) error
	DeleteMeta(accountID, key string) error
}

// DbApp is an interface combining the required DB roles for the application.
// The concrete DB implementation must satisfy this interface.
type DbApp interface {
	DbAccount
	DbMeta
}

// TimeFormat renders a time in the store's canonical representation,
// RFC3339 in UTC.
func TimeFormat(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// TimeParse parses a time in the store's canonical representation.
func TimeParse(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
