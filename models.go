package credentials

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the credential record. It is owned by the store and
// never cached by this package.
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	ID             uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	FirstName      string    `bun:"first_name,notnull" json:"firstName"`
	LastName       string    `bun:"last_name,notnull" json:"lastName,omitempty"`
	Email          string    `bun:"email,notnull,unique" json:"email"`
	Role           Role      `bun:"user_role,notnull" json:"role"`
	PasswordDigest string    `bun:"password_digest,notnull" json:"-"`
	Salt           string    `bun:"salt,notnull" json:"-"`
	CreatedAt      time.Time `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt      time.Time `bun:"updated_at,notnull" json:"updatedAt"`
}

// Identity returns the claims a session token carries for this user
func (u *User) Identity() Identity {
	return Identity{
		UserID:    u.ID.String(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}

// UserPatch holds the subset of fields a profile update touches.
// Nil fields are left untouched.
type UserPatch struct {
	FirstName      *string
	LastName       *string
	Email          *string
	PasswordDigest *string
	Salt           *string
}

// IsEmpty reports whether the patch carries no fields
func (p UserPatch) IsEmpty() bool {
	return len(p.columns()) == 0
}

// apply copies the patch onto record and returns the touched columns
func (p UserPatch) apply(record *User) []string {
	if p.FirstName != nil {
		record.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		record.LastName = *p.LastName
	}
	if p.Email != nil {
		record.Email = *p.Email
	}
	if p.PasswordDigest != nil {
		record.PasswordDigest = *p.PasswordDigest
	}
	if p.Salt != nil {
		record.Salt = *p.Salt
	}
	return p.columns()
}

func (p UserPatch) columns() []string {
	cols := make([]string, 0, 5)
	if p.FirstName != nil {
		cols = append(cols, "first_name")
	}
	if p.LastName != nil {
		cols = append(cols, "last_name")
	}
	if p.Email != nil {
		cols = append(cols, "email")
	}
	if p.PasswordDigest != nil {
		cols = append(cols, "password_digest")
	}
	if p.Salt != nil {
		cols = append(cols, "salt")
	}
	return cols
}
