package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"employee-feedback/src/services/auth"
	"employee-feedback/src/utils"
)

const claimsKey = "auth_claims"

// Authenticator resolves a bearer token into session claims.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// AuthJWT rejects requests without a valid, unrevoked bearer token and
// stores the claims for handlers.
func AuthJWT(authn Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := BearerToken(c)
		if err != nil {
			return err
		}
		claims, err := authn.Authenticate(c.UserContext(), token)
		if err != nil {
			return err
		}
		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// BearerToken extracts the token of an "Authorization: Bearer" header.
func BearerToken(c *fiber.Ctx) (string, error) {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if header == "" {
		return "", utils.NewUnauthorized("No token provided")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", utils.NewUnauthorized("Missing or invalid Authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

// ClaimsFromContext returns the claims stored by AuthJWT.
func ClaimsFromContext(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}
