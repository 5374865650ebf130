package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// StorePinger is satisfied by *sql.DB and by the CSV store, so the health
// endpoint checks whichever backend the process was started with.
type StorePinger interface {
	PingContext(ctx context.Context) error
}

// HealthCheck reports store connectivity.
func HealthCheck(store StorePinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := store.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a bare liveness check with no dependencies.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
