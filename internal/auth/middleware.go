package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/recipe-service/internal/domain"
	"github.com/spec-kit/recipe-service/internal/repository"
)

const principalKey = "auth_principal"

// bearerPrefix is matched case-sensitively, single trailing space included.
const bearerPrefix = "Bearer "

// Principal represents the authenticated caller. It carries no capabilities
// beyond identity; there is a single "authenticated" level in this service.
type Principal struct {
	User *domain.User
}

// AuthMiddleware resolves bearer tokens into request-scoped principals.
type AuthMiddleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewAuthMiddleware constructs the middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Handle runs once per request before protected handlers. Requests without a
// usable bearer token are forwarded unauthenticated; whether that is
// acceptable is decided by route guards downstream, not here. Internal faults
// during resolution are converted to a 401 locally and never surface as a
// server error.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = authErrorResponse(c, fmt.Errorf("%v", r))
		}
	}()

	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, bearerPrefix) {
		return c.Next()
	}
	candidate := header[len(bearerPrefix):]

	subject := m.tokens.ExtractSubject(candidate)
	if subject == "" {
		return c.Next()
	}

	// Idempotency guard: never overwrite a principal set earlier in the chain.
	if _, ok := PrincipalFromContext(c); ok {
		return c.Next()
	}

	user, lookupErr := m.users.GetByEmail(c.UserContext(), subject)
	if lookupErr != nil {
		if errors.Is(lookupErr, pgx.ErrNoRows) {
			return c.Next()
		}
		return authErrorResponse(c, lookupErr)
	}

	if m.tokens.IsTokenValid(candidate, user) {
		c.Locals(principalKey, &Principal{User: user})
	}
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity for this request.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

func authErrorResponse(c *fiber.Ctx, err error) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(fiber.StatusUnauthorized).SendString("Authentication error: " + err.Error())
}
