package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/weather-records/internal/logger"
	"github.com/i474232898/weather-records/internal/weather"
)

const serviceName = "weather-records"

// Options configures NewApp.
type Options struct {
	// CORSOrigin is the only browser origin allowed to call the API.
	CORSOrigin string
	Logger     logger.Logger
	// AccessLog enables one line per request on stdout.
	AccessLog bool
}

// NewApp builds the Fiber app with middleware, health, metrics and weather routes.
func NewApp(service *weather.Service, opts Options) *fiber.App {
	log := opts.Logger.WithField("component", "http")

	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		ErrorHandler:          newErrorHandler(log),
	})

	// Global middleware
	if opts.AccessLog {
		app.Use(fiberlogger.New())
	}
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     opts.CORSOrigin,
		AllowCredentials: true,
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": serviceName,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	RegisterRoutes(app, service)

	return app
}
