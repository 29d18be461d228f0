package credentials

import (
	"errors"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	MaxNameLength     = 55
	MaxEmailLength    = 255
	MinPasswordLength = 8
)

// RegisterInput is the payload accepted by Register
type RegisterInput struct {
	FirstName string `json:"firstName" form:"firstName"`
	LastName  string `json:"lastName" form:"lastName"`
	Email     string `json:"email" form:"email"`
	Password  string `json:"password" form:"password"`
}

// Validate will run validation rules
func (r RegisterInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, MaxNameLength)),
		validation.Field(&r.LastName, validation.Length(0, MaxNameLength)),
		validation.Field(&r.Email, validation.Required, validation.Length(0, MaxEmailLength), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(MinPasswordLength, 0)),
	)
}

// LoginInput is the payload accepted by Login
type LoginInput struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate will run validation rules
func (r LoginInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// UpdateProfileInput is the payload accepted by UpdateProfile.
// Every field is optional; nil means "leave unchanged".
type UpdateProfileInput struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
}

// Validate will run validation rules
func (r UpdateProfileInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.NilOrNotEmpty, validation.Length(1, MaxNameLength)),
		validation.Field(&r.LastName, validation.Length(0, MaxNameLength)),
		validation.Field(&r.Email, validation.NilOrNotEmpty, validation.Length(0, MaxEmailLength), is.Email),
		validation.Field(&r.Password, validation.NilOrNotEmpty),
	)
}

// IsEmpty reports whether the input carries no recognized field
func (r UpdateProfileInput) IsEmpty() bool {
	return r.FirstName == nil && r.LastName == nil && r.Email == nil && r.Password == nil
}

// FormatValidationErrorToMap flattens ozzo validation errors into field => message.
// Errors that are not field errors are reported under the "payload" key.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		out["payload"] = err.Error()
		return out
	}

	flattenValidationErrors("", errs, out)
	return out
}

func flattenValidationErrors(prefix string, errs validation.Errors, out map[string]string) {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}

		var nested validation.Errors
		if errors.As(errs[k], &nested) {
			flattenValidationErrors(name, nested, out)
			continue
		}
		out[name] = errs[k].Error()
	}
}

// validationError converts the result of Validate into an ErrValidation
func validationError(err error) error {
	if err == nil {
		return nil
	}
	return NewValidationError(FormatValidationErrorToMap(err))
}
