package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/OnteruYallaiah21/Getiva-app/internal/auth"
	"github.com/OnteruYallaiah21/Getiva-app/internal/model"
)

const (
	// UsernameLocalKey is the key under which the authenticated username is
	// stored in Fiber's context locals.
	UsernameLocalKey = "session_username"
	// RoleLocalKey is the key under which the authenticated role is stored.
	RoleLocalKey = "session_role"
)

// RequireUser validates the Bearer token on every request and stores the
// session's username and role in locals. Missing, malformed, or expired
// tokens get a 401 from the global error handler.
func RequireUser(signer *auth.TokenSigner) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return fiber.ErrUnauthorized
		}

		sess, err := signer.Parse(token)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		c.Locals(UsernameLocalKey, sess.Username)
		c.Locals(RoleLocalKey, sess.Role)
		return c.Next()
	}
}

// RequireAdmin rejects sessions whose role is not admin. It must run after
// RequireUser.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(RoleLocalKey).(string)
		if role != model.RoleAdmin {
			return fiber.ErrForbidden
		}
		return c.Next()
	}
}
