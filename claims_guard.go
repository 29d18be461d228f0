package credentials

import "github.com/gofiber/fiber/v2"

// CheckAuthenticated fails with ErrUnauthorized when no identity is attached
func CheckAuthenticated(claims AuthClaims) error {
	if isNilClaims(claims) || claims.UserID() == "" {
		return ErrUnauthorized
	}
	return nil
}

// CheckRole fails with ErrForbidden unless the identity holds exactly the
// required role. Missing claims are reported as ErrUnauthorized.
func CheckRole(claims AuthClaims, role Role) error {
	if err := CheckAuthenticated(claims); err != nil {
		return err
	}

	if !claims.Role().Satisfies(role) {
		return withMetadata(ErrForbidden, map[string]any{
			"required_role": role.String(),
		})
	}

	return nil
}

// RequireAuthenticated rejects anonymous requests
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, _ := GetFiberClaims(c)
		if err := CheckAuthenticated(claims); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireRole rejects requests whose identity does not hold role
func RequireRole(role Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, _ := GetFiberClaims(c)
		if err := CheckRole(claims, role); err != nil {
			return err
		}
		return c.Next()
	}
}
