package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lineoa/line-msg-api/config"
	"github.com/lineoa/line-msg-api/pkg/eventworker"
	"github.com/lineoa/line-msg-api/pkg/utils"
)

type App struct {
	SheetsConfigured func() bool
	Pool             *eventworker.Pool
}

func InitRestApp(app fiber.Router, sheetsConfigured func() bool, pool *eventworker.Pool) App {
	rest := App{SheetsConfigured: sheetsConfigured, Pool: pool}
	app.Get("/health", rest.Health)
	app.Get("/version", rest.GetVersion)
	app.Get("/worker-pool/stats", rest.GetWorkerPoolStats)

	return rest
}

func (handler *App) GetVersion(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version": config.AppVersion,
		"os":      config.AppOs,
	})
}

// Health reports which external collaborators are configured. It never
// calls out to them; presence of credentials is the readiness signal.
func (handler *App) Health(c *fiber.Ctx) error {
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Service healthy",
		Results: map[string]any{
			"line_credentials": config.HasLineCredentials(),
			"sheets_log":       handler.SheetsConfigured(),
			"version":          config.AppVersion,
		},
	})
}

// GetWorkerPoolStats returns real-time event worker pool statistics.
func (handler *App) GetWorkerPoolStats(c *fiber.Ctx) error {
	if handler.Pool == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Event worker pool not initialized",
		})
	}

	return c.JSON(handler.Pool.GetStats())
}
