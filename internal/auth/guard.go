package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/recipe-service/pkg/util"
)

// RequireUser rejects requests that reached a protected route without an
// authenticated principal. The filter itself never rejects; this guard is the
// explicit downstream authorization step.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
