package credentials

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/goliatone/go-credentials/middleware/jwtware"
)

// ValidationListener aliases the jwtware listener so consumers can use credentials helpers directly.
type ValidationListener = jwtware.ValidationListener

// ContextEnricherAdapter stores verified claims in the standard context
// for downstream guard usage.
func ContextEnricherAdapter(c context.Context, claims any) context.Context {
	authClaims, ok := claims.(AuthClaims)
	if !ok {
		return c
	}
	return WithClaimsContext(c, authClaims)
}

// RegisterValidationListeners appends listeners to a jwtware.Config in a safe, reusable way.
func RegisterValidationListeners(cfg *jwtware.Config, listeners ...ValidationListener) {
	if cfg == nil || len(listeners) == 0 {
		return
	}
	cfg.ValidationListeners = append(cfg.ValidationListeners, listeners...)
}

// Authenticate returns the authentication gate. Requests without an
// Authorization header pass through anonymously so public routes can share
// the same chain; any header that is present must carry a valid bearer token.
func Authenticate(tokens TokenService, logger Logger, listeners ...ValidationListener) fiber.Handler {
	if logger == nil {
		logger = defLogger{}
	}

	cfg := jwtware.Config{
		TokenValidator: jwtware.ValidatorFunc(func(raw string) (any, error) {
			claims, err := tokens.Verify(raw)
			if err != nil {
				return nil, err
			}
			return claims, nil
		}),
		ContextKey:      ClaimsLocalsKey,
		Optional:        true,
		ContextEnricher: ContextEnricherAdapter,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return gateError(logger, err)
		},
	}
	RegisterValidationListeners(&cfg, listeners...)

	return jwtware.New(cfg)
}

func gateError(logger Logger, err error) error {
	switch {
	case errors.Is(err, jwtware.ErrMalformedHeader):
		return ErrMalformedHeader
	case errors.Is(err, jwtware.ErrMissingToken):
		return ErrMissingToken
	case errors.Is(err, jwtware.ErrInvalidToken):
		logger.Debug("authentication gate rejected token", "error", err)
		return wrapError(ErrInvalidOrExpiredToken, err)
	}

	if richErr, ok := AsError(err); ok {
		return richErr
	}

	logger.Debug("authentication gate rejected request", "error", err)
	return wrapError(ErrInvalidOrExpiredToken, err)
}
