package credentials

import (
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const metadataFieldsKey = "fields"

const (
	TextCodeValidation         = "VALIDATION_ERROR"
	TextCodeDuplicateEmail     = "DUPLICATE_EMAIL"
	TextCodeUserNotFound       = "USER_NOT_FOUND"
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	TextCodeNoFieldsProvided   = "NO_FIELDS_PROVIDED"
	TextCodeMalformedHeader    = "MALFORMED_AUTH_HEADER"
	TextCodeMissingToken       = "MISSING_TOKEN"
	TextCodeInvalidOrExpired   = "INVALID_OR_EXPIRED_TOKEN"
	TextCodeInvalidToken       = "INVALID_TOKEN"
	TextCodeUnauthorized       = "UNAUTHORIZED"
	TextCodeForbidden          = "FORBIDDEN"
	TextCodeInternal           = "INTERNAL_ERROR"
	TextCodeMissingSigningKey  = "MISSING_SIGNING_KEY"
	TextCodeMismatchedPassword = "MISMATCHED_PASSWORD"
	TextCodeRandomUnavailable  = "RANDOM_SOURCE_UNAVAILABLE"
)

// ErrValidation carries per field detail in its metadata
var ErrValidation = goerrors.New("validation failed", goerrors.CategoryValidation).
	WithCode(goerrors.CodeBadRequest).
	WithTextCode(TextCodeValidation)

var ErrDuplicateEmail = goerrors.New("user with this email already exists", goerrors.CategoryConflict).
	WithCode(goerrors.CodeBadRequest).
	WithTextCode(TextCodeDuplicateEmail)

var ErrUserNotFound = goerrors.New("user not found", goerrors.CategoryNotFound).
	WithCode(goerrors.CodeNotFound).
	WithTextCode(TextCodeUserNotFound)

var ErrInvalidCredentials = goerrors.New("incorrect password", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidCredentials)

var ErrNoFieldsProvided = goerrors.New("no valid fields provided for update", goerrors.CategoryBadInput).
	WithCode(goerrors.CodeBadRequest).
	WithTextCode(TextCodeNoFieldsProvided)

var ErrMalformedHeader = goerrors.New(`authorization header must start with "Bearer "`, goerrors.CategoryAuth).
	WithCode(goerrors.CodeBadRequest).
	WithTextCode(TextCodeMalformedHeader)

var ErrMissingToken = goerrors.New("token missing", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(TextCodeMissingToken)

var ErrInvalidOrExpiredToken = goerrors.New("invalid or expired token", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidOrExpired)

// ErrInvalidToken is returned by the token service for bad signatures,
// malformed input and expired tokens alike.
var ErrInvalidToken = goerrors.New("invalid token", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidToken)

var ErrUnauthorized = goerrors.New("authentication required", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(TextCodeUnauthorized)

var ErrForbidden = goerrors.New("you are not authorized to access this route", goerrors.CategoryAuthz).
	WithCode(goerrors.CodeForbidden).
	WithTextCode(TextCodeForbidden)

// ErrInternal is the only thing callers see for unexpected failures
var ErrInternal = goerrors.New("internal server error", goerrors.CategoryInternal).
	WithCode(goerrors.CodeInternal).
	WithTextCode(TextCodeInternal)

var ErrMissingSigningKey = goerrors.New("signing key is required", goerrors.CategoryInternal).
	WithCode(goerrors.CodeInternal).
	WithTextCode(TextCodeMissingSigningKey)

var ErrMismatchedHashAndPassword = goerrors.New("password does not match digest", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(TextCodeMismatchedPassword)

var ErrRandomSourceUnavailable = goerrors.New("random source unavailable", goerrors.CategoryInternal).
	WithCode(goerrors.CodeInternal).
	WithTextCode(TextCodeRandomUnavailable)

// wrapError returns a copy of base with src as its source. Sentinels are
// never mutated.
func wrapError(base *goerrors.Error, src error) *goerrors.Error {
	clone := base.Clone()
	if clone == nil {
		clone = base
	}
	clone.Source = src
	return clone
}

// withMetadata returns a copy of base carrying meta on a map of its own
func withMetadata(base *goerrors.Error, meta map[string]any) *goerrors.Error {
	clone := base.Clone()
	if clone == nil {
		clone = base
	}
	merged := make(map[string]any, len(clone.Metadata)+len(meta))
	for k, v := range clone.Metadata {
		merged[k] = v
	}
	for k, v := range meta {
		merged[k] = v
	}
	clone.Metadata = merged
	return clone
}

// NewValidationError builds an ErrValidation carrying the given field messages
func NewValidationError(fields map[string]string) *goerrors.Error {
	return withMetadata(ErrValidation, map[string]any{
		metadataFieldsKey: fields,
	})
}

// FieldErrors returns the per field messages attached to a validation error
func FieldErrors(err error) map[string]string {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) || richErr.Metadata == nil {
		return nil
	}
	fields, _ := richErr.Metadata[metadataFieldsKey].(map[string]string)
	return fields
}

// IsError reports whether err, or any rich error it wraps, shares the text
// code of target. Copies made by wrapError and withMetadata still match.
func IsError(err error, target *goerrors.Error) bool {
	if target == nil || target.TextCode == "" {
		return false
	}
	for err != nil {
		var richErr *goerrors.Error
		if !goerrors.As(err, &richErr) {
			return false
		}
		if richErr.TextCode == target.TextCode {
			return true
		}
		err = richErr.Source
	}
	return false
}

// AsError extracts a rich error from err, falling back to ErrInternal
func AsError(err error) (*goerrors.Error, bool) {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr, true
	}
	return wrapError(ErrInternal, err), false
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// sourceChain walks err and the sources of any rich errors it wraps
func sourceChain(err error, match func(error) bool) bool {
	for err != nil {
		if match(err) {
			return true
		}
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) && richErr.Source != nil && richErr.Source != err {
			err = richErr.Source
			continue
		}
		err = errors.Unwrap(err)
	}
	return false
}
