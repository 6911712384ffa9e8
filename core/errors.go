package core

import "errors"

// Precondition errors. Raised before any store mutation; the caller must
// treat them as a hard failure of the sign-in attempt.
var (
	// ErrEmailRequired is returned by CreateAccount when the provider
	// supplied no email address and policy requires one.
	ErrEmailRequired = errors.New("email is required to create an account")

	// ErrNoAccountTarget is returned by UpdateAccount when no target
	// account was resolved by the caller.
	ErrNoAccountTarget = errors.New("no account set to be updated")
)

// ErrCreateRejected signals that the pre-creation hook vetoed the account.
// Nothing was attempted against the store and no notification fired. It is a
// policy outcome, not a failure of the caller's request.
var ErrCreateRejected = errors.New("account creation rejected by policy hook")
