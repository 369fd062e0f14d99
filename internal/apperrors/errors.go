package apperrors

import (
	"errors"
	"net/http"
)

// Closed failure taxonomy for the auth and directory subsystems.
// Callers branch on these with errors.Is, never on message text.
var (
	// ErrProviderUnreachable means an outbound call to the identity
	// provider failed at the transport level.
	ErrProviderUnreachable = errors.New("identity provider unreachable")

	// ErrProviderRejected means the provider refused the authorization
	// code (expired, already used, redirect URI mismatch).
	ErrProviderRejected = errors.New("identity provider rejected authorization code")

	// ErrIncompleteIdentity means the provider returned claims without
	// a subject id or email.
	ErrIncompleteIdentity = errors.New("incomplete identity data from provider")

	// ErrConflict is a store-level uniqueness violation.
	ErrConflict = errors.New("record conflicts with an existing one")

	// ErrNotFound is a missing record.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyLinked means the external account is linked to a
	// different local user.
	ErrAlreadyLinked = errors.New("external account already linked to another user")

	// ErrNoPassword refuses an unlink that would leave the account
	// without any login path.
	ErrNoPassword = errors.New("account has no password set")

	// ErrNotLinked means an unlink was requested for an account with
	// no external account attached.
	ErrNotLinked = errors.New("no external account linked")

	// ErrUnauthorized is a missing, expired, or revoked token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the authenticated user lacks the required role.
	ErrForbidden = errors.New("forbidden")
)

// Status maps a failure to its HTTP status code. Client-supplied
// problems are 400, authentication failures 401, everything
// unexpected 500.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrIncompleteIdentity),
		errors.Is(err, ErrProviderRejected),
		errors.Is(err, ErrAlreadyLinked),
		errors.Is(err, ErrNoPassword),
		errors.Is(err, ErrNotLinked):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
