package users

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeUnauthenticated = "UNAUTHENTICATED"
	textCodeForbidden       = "FORBIDDEN"
	textCodeUserNotFound    = "USER_NOT_FOUND"
	textCodeEmailTaken      = "EMAIL_TAKEN"
	textCodeNoIdentity      = "NO_IDENTITY"
	textCodePasswordReuse   = "PASSWORD_REUSE"
	textCodeBadPassword     = "PASSWORD_MISMATCH"
)

// ErrUnauthenticated covers missing, malformed, or expired credentials as
// well as tokens whose subject no longer resolves to an account. Collapsing
// all of these into one error keeps responses from leaking whether an
// account exists.
var ErrUnauthenticated = goerrors.New("invalid or expired credentials", goerrors.CategoryAuth).
	WithTextCode(textCodeUnauthenticated).
	WithCode(goerrors.CodeUnauthorized)

// ErrNoIdentity is returned when a request context carries no authenticated
// identity. Self-service operations surface it as an authentication failure.
var ErrNoIdentity = goerrors.New("no identity bound to request context", goerrors.CategoryAuth).
	WithTextCode(textCodeNoIdentity).
	WithCode(goerrors.CodeUnauthorized)

// ErrForbidden is returned when an authenticated identity lacks a required
// role, or trips an operation-specific policy such as the escalation guard.
var ErrForbidden = goerrors.New("insufficient permissions", goerrors.CategoryAuthz).
	WithTextCode(textCodeForbidden).
	WithCode(goerrors.CodeForbidden)

// ErrUserNotFound is returned by operations that require the referenced
// account to exist.
var ErrUserNotFound = goerrors.New("user not found", goerrors.CategoryNotFound).
	WithTextCode(textCodeUserNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrEmailTaken is the uniqueness violation on create.
var ErrEmailTaken = goerrors.New("this email is already associated with an account", goerrors.CategoryConflict).
	WithTextCode(textCodeEmailTaken).
	WithCode(goerrors.CodeConflict)

// ErrMismatchedHashAndPassword is returned when a cleartext password does
// not verify against the stored hash.
var ErrMismatchedHashAndPassword = goerrors.New("password does not match", goerrors.CategoryAuthz).
	WithTextCode(textCodeBadPassword).
	WithCode(goerrors.CodeForbidden)

// ErrPasswordReuse rejects a credential change where the new secret equals
// the old one.
var ErrPasswordReuse = goerrors.New("new password must differ from the current one", goerrors.CategoryAuthz).
	WithTextCode(textCodePasswordReuse).
	WithCode(goerrors.CodeForbidden)

// ErrNoEmptyString rejects empty secrets on the hashing path.
var ErrNoEmptyString = goerrors.New("value must not be empty", goerrors.CategoryValidation).
	WithTextCode("EMPTY_STRING").
	WithCode(goerrors.CodeBadRequest)

// unauthenticated clones ErrUnauthenticated with an internal reason. The
// reason lands in logs and metadata only; the caller-facing error stays
// indistinguishable across failure modes.
func unauthenticated(reason string) error {
	clone := ErrUnauthenticated.Clone()
	if clone == nil {
		return ErrUnauthenticated
	}
	clone.Source = ErrUnauthenticated
	return clone.WithMetadata(map[string]any{"reason": reason})
}

// forbidden clones ErrForbidden with operation metadata.
func forbidden(reason string, meta map[string]any) error {
	clone := ErrForbidden.Clone()
	if clone == nil {
		return ErrForbidden
	}
	clone.Source = ErrForbidden
	if meta == nil {
		meta = map[string]any{}
	}
	meta["reason"] = reason
	return clone.WithMetadata(meta)
}

// IsUniqueViolation detects a duplicate-key insert across the SQL drivers we
// run against. The store maps these to ErrEmailTaken so a concurrent insert
// that wins the race still surfaces as a conflict, not a generic failure.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
