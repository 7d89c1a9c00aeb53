package middleware

import (
	"strconv"
	"time"

	"phonexchange_backend/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records request count and latency per matched route. Errors are
// rendered here through the app's ErrorHandler so the recorded status is the
// one the client sees.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		route := c.Route().Path
		method := c.Method()
		status := strconv.Itoa(c.Response().StatusCode())

		metrics.HTTPRequests.WithLabelValues(method, route, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return nil
	}
}
