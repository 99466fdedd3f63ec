package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"foldertoword/internal/logger"
)

// Logger logs one line per request with request_id, method, path, status and
// latency in milliseconds. Server errors are logged at error level.
func Logger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		l := logger.WithTrace(c.UserContext(), log)

		evt := l.Info()
		if status >= fiber.StatusInternalServerError {
			evt = l.Error()
		}
		evt.Str("request_id", rid).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Float64("latency", float64(time.Since(start).Microseconds())/1000).
			Msg("request")

		return err
	}
}
