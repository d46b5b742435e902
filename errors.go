package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// ErrIdentityNotFound is the error we return when no user matches the
// supplied username. Surfaced as a 404 on the signin route; this mirrors
// the wire contract the frontend already depends on.
var ErrIdentityNotFound = errors.New("User Not found.", errors.CategoryNotFound).
	WithTextCode("USER_NOT_FOUND").
	WithCode(errors.CodeNotFound)

// ErrMismatchedHashAndPassword is returned when password verification fails
var ErrMismatchedHashAndPassword = errors.New("Invalid Password!", errors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS").
	WithCode(errors.CodeUnauthorized)

// ErrDuplicateIdentity is returned when a signup reuses an existing
// username or email
var ErrDuplicateIdentity = errors.New("username or email already in use", errors.CategoryConflict).
	WithTextCode("DUPLICATE_IDENTITY").
	WithCode(errors.CodeConflict)

// ErrInvalidRole is returned when a role name falls outside the closed
// role enumeration
var ErrInvalidRole = errors.New("unknown role", errors.CategoryValidation).
	WithTextCode("INVALID_ROLE")

// ErrTokenExpired is returned for tokens past their expiry instant
var ErrTokenExpired = errors.New("authentication token expired", errors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed covers bad signatures and undecodable tokens. Callers
// see the same unauthorized outcome as ErrTokenExpired; the distinction
// exists for logging only.
var ErrTokenMalformed = errors.New("invalid authentication token", errors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED").
	WithCode(errors.CodeUnauthorized)

// NewInvalidRoleError builds an invalid-role error carrying the offending
// name. The sentinel is cloned so shared state never accumulates metadata,
// and kept as the source so errors.Is(err, ErrInvalidRole) holds.
func NewInvalidRoleError(role string) *errors.Error {
	clone := ErrInvalidRole.Clone()
	if clone == nil {
		return ErrInvalidRole
	}
	clone.Source = ErrInvalidRole
	return clone.WithMetadata(map[string]any{"role": role})
}

// NewDuplicateIdentityError builds a conflict error for a signup that
// reuses an existing username or email. Matches errors.Is against
// ErrDuplicateIdentity.
func NewDuplicateIdentityError(username, email string) *errors.Error {
	clone := ErrDuplicateIdentity.Clone()
	if clone == nil {
		return ErrDuplicateIdentity
	}
	clone.Source = ErrDuplicateIdentity
	return clone.WithMetadata(map[string]any{
		"username": username,
		"email":    email,
	})
}

// ErrNoEmptyString rejects empty passwords before hashing
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode("EMPTY_PASSWORD")

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// CategoryOf extracts the go-errors category from err, defaulting to
// CategoryInternal for unclassified failures.
func CategoryOf(err error) errors.Category {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.Category
	}
	return errors.CategoryInternal
}

// isUniqueViolation detects duplicate-key failures from the datastore so
// they can be mapped to a conflict outcome. Matches both sqlite and
// postgres phrasing.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
