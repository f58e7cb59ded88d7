package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TokenCookie is the cookie that carries the token when no Authorization header is sent.
const TokenCookie = "Authorization-Token"

const subjectKey = "auth_subject"

// TokenVerifier returns the subject asserted by a valid token.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Authenticate verifies the request's token, if any, and stores its subject in
// the context. It never rejects a request: handlers decide what a missing
// subject means by calling Subject.
func Authenticate(tokens TokenVerifier, log *zap.Logger) fiber.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *fiber.Ctx) error {
		token := ExtractToken(c)
		if token == "" {
			return c.Next()
		}

		subject, err := tokens.Verify(token)
		if err != nil {
			log.Debug("Token rejected", zap.String("path", c.Path()), zap.Error(err))
			return c.Next()
		}

		c.Locals(subjectKey, subject)
		return c.Next()
	}
}

// ExtractToken returns the bearer token from the Authorization header, falling
// back to the token cookie. It returns "" when neither is present.
func ExtractToken(c *fiber.Ctx) string {
	// Expected format: "Bearer <token>"
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
		return parts[1]
	}
	return c.Cookies(TokenCookie)
}

// Subject returns the verified subject attached by Authenticate.
func Subject(c *fiber.Ctx) (string, bool) {
	subject, ok := c.Locals(subjectKey).(string)
	return subject, ok && subject != ""
}
