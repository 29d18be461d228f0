package credentials

import "strings"

// Role is the user's role
type Role string

const (
	// RoleAdmin can manage every user record
	RoleAdmin Role = "ADMIN"
	// RoleModerator is reserved for moderation routes
	RoleModerator Role = "MODERATOR"
	// RoleUser is the default role assigned on registration
	RoleUser Role = "USER"
)

// IsValid checks if the role is one of the predefined valid roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	default:
		return false
	}
}

// Satisfies reports whether a holder of r passes a gate requiring
// the given role. Only an exact match passes; unknown roles never do.
func (r Role) Satisfies(required Role) bool {
	switch required {
	case RoleAdmin:
		return r == RoleAdmin
	case RoleModerator:
		return r == RoleModerator
	case RoleUser:
		return r == RoleUser
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// GetAllRoles returns all predefined roles
func GetAllRoles() []Role {
	return []Role{
		RoleAdmin,
		RoleModerator,
		RoleUser,
	}
}

// ParseRole safely parses a string into a Role.
// Matching is case insensitive, the stored form is upper case.
func ParseRole(roleStr string) (Role, bool) {
	role := Role(strings.ToUpper(strings.TrimSpace(roleStr)))
	return role, role.IsValid()
}
