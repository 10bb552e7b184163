package auth

import "errors"

// Domain-specific errors for authentication and authorisation.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrTokenInvalid is returned when a bearer token fails signature,
	// expiry, issuer or subject checks.
	ErrTokenInvalid = errors.New("auth: invalid token")

	// ErrUnauthenticated is returned for any operation attempted without a caller.
	ErrUnauthenticated = errors.New("auth: authentication credentials were not provided")

	// ErrForbidden is returned when a caller tries to write under a parent
	// record owned by someone else.
	ErrForbidden = errors.New("auth: you are not the owner of the hydroponic system")

	// ErrNotFound is returned when a target record is absent or owned by
	// someone else. The two cases are indistinguishable by design of the
	// guard: callers must not learn that another tenant's record exists.
	ErrNotFound = errors.New("auth: not found")

	// ErrOwnerNotFound is returned by the owner store for unknown owner ids.
	ErrOwnerNotFound = errors.New("auth: owner not found")
)
