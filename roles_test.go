package credentials_test

import (
	"testing"

	"github.com/goliatone/go-credentials"
	"github.com/stretchr/testify/assert"
)

func TestRole_IsValid(t *testing.T) {
	for _, role := range credentials.GetAllRoles() {
		assert.True(t, role.IsValid(), role)
	}

	assert.False(t, credentials.Role("").IsValid())
	assert.False(t, credentials.Role("admin").IsValid())
	assert.False(t, credentials.Role("OWNER").IsValid())
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		input string
		want  credentials.Role
		ok    bool
	}{
		{"ADMIN", credentials.RoleAdmin, true},
		{"moderator", credentials.RoleModerator, true},
		{" user ", credentials.RoleUser, true},
		{"guest", credentials.Role("GUEST"), false},
		{"", credentials.Role(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			role, ok := credentials.ParseRole(tt.input)
			assert.Equal(t, tt.want, role)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestRole_Satisfies(t *testing.T) {
	tests := []struct {
		name     string
		held     credentials.Role
		required credentials.Role
		expected bool
	}{
		{"admin passes admin gate", credentials.RoleAdmin, credentials.RoleAdmin, true},
		{"user fails admin gate", credentials.RoleUser, credentials.RoleAdmin, false},
		{"moderator fails admin gate", credentials.RoleModerator, credentials.RoleAdmin, false},
		{"admin fails moderator gate", credentials.RoleAdmin, credentials.RoleModerator, false},
		{"user passes user gate", credentials.RoleUser, credentials.RoleUser, true},
		{"lower case admin fails", credentials.Role("admin"), credentials.RoleAdmin, false},
		{"unknown required role never passes", credentials.Role("ROOT"), credentials.Role("ROOT"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.held.Satisfies(tt.required))
		})
	}
}
