package credentials_test

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goliatone/go-credentials"
)

func TestRegisterInput_Validate(t *testing.T) {
	tests := []struct {
		name   string
		input  credentials.RegisterInput
		fields []string
	}{
		{
			name:  "valid without last name",
			input: credentials.RegisterInput{FirstName: "A", Email: "a@x.com", Password: "password1"},
		},
		{
			name:   "everything missing",
			input:  credentials.RegisterInput{},
			fields: []string{"email", "firstName", "password"},
		},
		{
			name:   "short password",
			input:  credentials.RegisterInput{FirstName: "A", Email: "a@x.com", Password: "1234567"},
			fields: []string{"password"},
		},
		{
			name:   "malformed email",
			input:  credentials.RegisterInput{FirstName: "A", Email: "a-at-x.com", Password: "password1"},
			fields: []string{"email"},
		},
		{
			name:   "names too long",
			input:  credentials.RegisterInput{FirstName: strings.Repeat("a", 56), LastName: strings.Repeat("b", 56), Email: "a@x.com", Password: "password1"},
			fields: []string{"firstName", "lastName"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			got := credentials.FormatValidationErrorToMap(err)
			assert.Len(t, got, len(tt.fields))
			for _, field := range tt.fields {
				assert.Contains(t, got, field)
			}
		})
	}
}

func TestLoginInput_Validate(t *testing.T) {
	assert.NoError(t, credentials.LoginInput{Email: "a@x.com", Password: "x"}.Validate())

	got := credentials.FormatValidationErrorToMap(credentials.LoginInput{Email: "a@x.com"}.Validate())
	assert.Equal(t, []string{"password"}, keys(got))
}

func TestUpdateProfileInput_Validate(t *testing.T) {
	assert.NoError(t, credentials.UpdateProfileInput{}.Validate())
	assert.True(t, credentials.UpdateProfileInput{}.IsEmpty())

	assert.NoError(t, credentials.UpdateProfileInput{LastName: strPtr("")}.Validate())
	assert.NoError(t, credentials.UpdateProfileInput{Password: strPtr("short")}.Validate())
	assert.False(t, credentials.UpdateProfileInput{Password: strPtr("short")}.IsEmpty())

	got := credentials.FormatValidationErrorToMap(credentials.UpdateProfileInput{
		FirstName: strPtr(""),
		Email:     strPtr("nope"),
	}.Validate())
	assert.Equal(t, []string{"email", "firstName"}, keys(got))
}

func TestFormatValidationErrorToMap(t *testing.T) {
	assert.Empty(t, credentials.FormatValidationErrorToMap(nil))
	assert.Equal(t, map[string]string{"payload": "boom"}, credentials.FormatValidationErrorToMap(errors.New("boom")))
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
