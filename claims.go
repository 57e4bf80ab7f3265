package users

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is the decoded payload of a bearer token. The role and email
// values are a snapshot taken at issuance time; they may be stale relative
// to the live account and must only be used for subject resolution and
// diagnostics, never for authorization.
type AuthClaims interface {
	Subject() string
	UserID() string
	Email() string
	Roles() []UserRole
	HasRole(role UserRole) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	UID       string     `json:"uid,omitempty"`
	UserEmail string     `json:"email,omitempty"`
	UserRoles []UserRole `json:"roles,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID, falling back to the subject claim
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Email returns the email snapshot
func (c *JWTClaims) Email() string {
	return c.UserEmail
}

// Roles returns the role snapshot taken at issuance
func (c *JWTClaims) Roles() []UserRole {
	return c.UserRoles
}

// HasRole checks the role snapshot for the given role
func (c *JWTClaims) HasRole(role UserRole) bool {
	return rolesContain(c.UserRoles, role)
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
