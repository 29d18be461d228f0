package credentials

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the data a session token carries
type Identity struct {
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName,omitempty"`
	Role      Role   `json:"role"`
}

// AuthClaims represents the decoded claims attached to a request
type AuthClaims interface {
	UserID() string
	Role() Role
	Identity() Identity
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	UID       string `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName,omitempty"`
	UserRole  Role   `json:"role"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// UserID returns the user ID
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// Role returns the role the token was issued with
func (c *JWTClaims) Role() Role {
	return c.UserRole
}

// Identity returns the claims as issued
func (c *JWTClaims) Identity() Identity {
	return Identity{
		UserID:    c.UserID(),
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Role:      c.UserRole,
	}
}

// Expires returns the expiration time, zero when the token never expires
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
