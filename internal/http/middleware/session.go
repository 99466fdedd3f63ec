package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SessionLocalKey stores the browser session key in Fiber's context locals.
const SessionLocalKey = "session_key"

// Session makes sure every browser carries a session cookie holding a random key.
// Cookies with a value that is not a UUID are replaced.
func Session(cookieName string, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Cookies(cookieName)
		if _, err := uuid.Parse(key); err != nil {
			key = uuid.NewString()
			cookie := &fiber.Cookie{
				Name:     cookieName,
				Value:    key,
				Path:     "/",
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			}
			if ttl > 0 {
				cookie.Expires = time.Now().Add(ttl)
			}
			c.Cookie(cookie)
		}
		c.Locals(SessionLocalKey, key)
		return c.Next()
	}
}

// SessionKey returns the key stored by Session, or "".
func SessionKey(c *fiber.Ctx) string {
	key, _ := c.Locals(SessionLocalKey).(string)
	return key
}
