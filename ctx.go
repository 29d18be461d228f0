package credentials

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// ClaimsLocalsKey is the fiber locals key the authentication gate stores claims under
const ClaimsLocalsKey = "user"

var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithClaimsContext sets the AuthClaims in the given context
func WithClaimsContext(ctx context.Context, claims AuthClaims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}

// GetClaims extracts the AuthClaims from the standard context
func GetClaims(ctx context.Context) (AuthClaims, bool) {
	if ctx == nil {
		return nil, false
	}
	raw, ok := ctx.Value(claimsCtxKey).(AuthClaims)
	if !ok || isNilClaims(raw) {
		return nil, false
	}
	return raw, true
}

// GetFiberClaims extracts the AuthClaims attached to a fiber request,
// looking at the locals first and the user context second.
func GetFiberClaims(c *fiber.Ctx) (AuthClaims, bool) {
	if c == nil {
		return nil, false
	}
	if claims, ok := c.Locals(ClaimsLocalsKey).(AuthClaims); ok && !isNilClaims(claims) {
		return claims, true
	}
	return GetClaims(c.UserContext())
}

func isNilClaims(claims AuthClaims) bool {
	if claims == nil {
		return true
	}
	if c, ok := claims.(*JWTClaims); ok && c == nil {
		return true
	}
	return false
}
