package model

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned on registration with an already used email.
	ErrEmailTaken = errors.New("email already taken")

	// ErrInvalidEmail is returned when an email address fails validation.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrWeakPassword is returned when a password fails the policy check.
	ErrWeakPassword = errors.New("password does not meet requirements")

	// ErrWrongCredential is returned when a password does not match.
	// The caller may let the user retry.
	ErrWrongCredential = errors.New("wrong credential")

	// ErrTooManyAttempts is returned when the re-authentication rate
	// limit for a user is exhausted.
	ErrTooManyAttempts = errors.New("too many attempts")

	// ErrMissingEmail is returned when a session has no email to build
	// a credential from. Fatal precondition, nothing was called.
	ErrMissingEmail = errors.New("missing email for re-authentication")

	// ErrEmptyPassword is returned when an empty password is submitted.
	// Rejected locally, never reaches the credential check.
	ErrEmptyPassword = errors.New("password is empty")

	// ErrRequiresRecentLogin is returned when identity deletion is
	// requested without a fresh re-authentication in the same session.
	ErrRequiresRecentLogin = errors.New("requires recent login")

	// ErrDeletionInProgress is returned when a deletion transaction is
	// already running for the user.
	ErrDeletionInProgress = errors.New("account deletion already in progress")
)
