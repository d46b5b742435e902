package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents structured JWT claims
type AuthClaims interface {
	Subject() string
	UserID() string
	Authorities() []string
	HasAuthority(authority string) bool
	HasRole(role RoleName) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims. The subject and
// uid both carry the user id; roles carries authority strings
// ("ROLE_USER", ...), the shape downstream access checks expect.
type JWTClaims struct {
	jwt.RegisteredClaims
	UID   string   `json:"uid,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Authorities returns the authority strings embedded in the token
func (c *JWTClaims) Authorities() []string {
	return c.Roles
}

// HasAuthority checks for a specific authority string, e.g. "ROLE_ADMIN"
func (c *JWTClaims) HasAuthority(authority string) bool {
	for _, a := range c.Roles {
		if a == authority {
			return true
		}
	}
	return false
}

// HasRole checks for a role by its enumeration name, e.g. "admin"
func (c *JWTClaims) HasRole(role RoleName) bool {
	return c.HasAuthority(Authority(role))
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
