package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mercato-app/mercato/internal/auth"
)

const userContextKey = "auth:user"

// Logger is the minimal leveled logger the server needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// RequireAuth extracts the bearer token, resolves it to the live user
// record, and stores the user in the request locals. Missing, malformed,
// expired, and unknown-subject tokens all fail with the same response.
func RequireAuth(auther auth.Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return auth.ErrUnauthenticated
		}

		user, err := auther.Authenticate(c.UserContext(), raw)
		if err != nil {
			return err
		}

		c.Locals(userContextKey, user)
		return c.Next()
	}
}

// CurrentUser returns the authenticated user stored by RequireAuth.
func CurrentUser(c *fiber.Ctx) (*auth.User, error) {
	user, ok := c.Locals(userContextKey).(*auth.User)
	if !ok || user == nil {
		return nil, auth.ErrUnauthenticated
	}
	return user, nil
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
