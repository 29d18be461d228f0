package jwtware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrMalformedHeader = errors.New("malformed authorization header")
	ErrMissingToken    = errors.New("missing token")
	ErrInvalidToken    = errors.New("invalid or expired token")
)

// TokenValidator verifies a raw token and returns the claims to attach to the request.
// It is kept as an interface so this package does not import its callers.
type TokenValidator interface {
	Validate(tokenString string) (any, error)
}

// ValidatorFunc adapts a function to TokenValidator
type ValidatorFunc func(tokenString string) (any, error)

func (f ValidatorFunc) Validate(tokenString string) (any, error) {
	return f(tokenString)
}

// ValidationListener is invoked after a token has been validated and before the request proceeds.
type ValidationListener func(c *fiber.Ctx, claims any) error

type Config struct {
	Filter         func(*fiber.Ctx) bool
	SuccessHandler fiber.Handler
	ErrorHandler   func(*fiber.Ctx, error) error
	// TokenValidator is required
	TokenValidator TokenValidator
	ContextKey     string
	Header         string
	AuthScheme     string

	// Optional lets requests without the header through with no claims attached.
	// A header that is present is always checked.
	Optional bool

	// ContextEnricher is an optional function to propagate claims to the
	// request's user context.
	ContextEnricher func(c context.Context, claims any) context.Context

	ValidationListeners []ValidationListener
}

func New(config ...Config) fiber.Handler {
	cfg := GetDefaultConfig(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		header := c.Get(cfg.Header)
		if header == "" && cfg.Optional {
			return c.Next()
		}

		raw, err := ExtractBearer(header, cfg.AuthScheme)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		claims, err := cfg.TokenValidator.Validate(raw)
		if err != nil {
			return cfg.ErrorHandler(c, fmt.Errorf("%w: %w", ErrInvalidToken, err))
		}

		if err := cfg.runValidationListeners(c, claims); err != nil {
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, claims)

		if cfg.ContextEnricher != nil {
			c.SetUserContext(cfg.ContextEnricher(c.UserContext(), claims))
		}

		return cfg.SuccessHandler(c)
	}
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			if errors.Is(err, ErrMalformedHeader) {
				return c.Status(fiber.StatusBadRequest).SendString(ErrMalformedHeader.Error())
			}
			if errors.Is(err, ErrMissingToken) {
				return c.Status(fiber.StatusUnauthorized).SendString(ErrMissingToken.Error())
			}
			return c.Status(fiber.StatusUnauthorized).SendString("Invalid or expired token")
		}
	}

	if cfg.TokenValidator == nil {
		panic("CREDENTIALS: JWT middleware configuration: TokenValidator is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.Header == "" {
		cfg.Header = fiber.HeaderAuthorization
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}

// ExtractBearer returns the token carried by an authorization header value.
// The scheme prefix is matched case sensitively and must be followed by a
// single space; the token is the second space separated field.
// A bare scheme is treated as an empty token since transports may trim
// the trailing space.
func ExtractBearer(header, authScheme string) (string, error) {
	if header == authScheme {
		return "", ErrMissingToken
	}

	if !strings.HasPrefix(header, authScheme+" ") {
		return "", ErrMalformedHeader
	}

	parts := strings.Split(header, " ")
	if parts[1] == "" {
		return "", ErrMissingToken
	}

	return parts[1], nil
}

func (cfg *Config) runValidationListeners(c *fiber.Ctx, claims any) error {
	for _, listener := range cfg.ValidationListeners {
		if listener == nil {
			continue
		}
		if err := listener(c, claims); err != nil {
			return err
		}
	}
	return nil
}
