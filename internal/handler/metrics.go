package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"lingua-globe-service/internal/metrics"
)

// Metrics records every request against its route pattern, so path
// parameters don't explode label cardinality.
func Metrics(registry *metrics.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = statusOf(err)
		}
		registry.RecordHTTPRequest(c.Method(), c.Route().Path, strconv.Itoa(status), time.Since(start))
		return err
	}
}
