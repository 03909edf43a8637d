package middleware

import (
	"github.com/gofiber/fiber/v2"

	"dessertlab/internal/session"
)

// SessionHeader carries the visitor's session id. The middleware echoes the
// resolved id back so a first-time visitor learns theirs.
const SessionHeader = "X-Session-ID"

const sessionLocal = "session"

// WithSession resolves (or creates) the request's session and stores it in
// the request locals.
func WithSession(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := store.GetOrCreate(c.Get(SessionHeader))
		c.Locals(sessionLocal, sess)
		c.Set(SessionHeader, sess.ID)
		return c.Next()
	}
}

// SessionFrom returns the session resolved by WithSession.
func SessionFrom(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(sessionLocal).(*session.Session)
	return sess
}

// LoginRequired rejects requests from sessions without a logged-in user.
func LoginRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := SessionFrom(c)
		if sess == nil || sess.UserEmail() == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Please log in first",
			})
		}
		return c.Next()
	}
}

// AdminRequired rejects requests from sessions whose user is not an admin.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := SessionFrom(c)
		if sess == nil || sess.UserEmail() == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Please log in first",
			})
		}
		if !sess.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Admin access required",
			})
		}
		return c.Next()
	}
}
