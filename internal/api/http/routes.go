package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-records/internal/weather"
)

// RegisterRoutes wires the weather record handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	app.Post("/weather", func(c *fiber.Ctx) error {
		var req weather.CreateRequest
		if err := c.BodyParser(&req); err != nil {
			return &weather.ValidationError{Message: "invalid request body: " + err.Error()}
		}

		id, err := service.Create(c.UserContext(), req)
		if err != nil {
			return err
		}

		return c.JSON(createResponse{ID: id})
	})

	app.Get("/weather/:id", func(c *fiber.Ctx) error {
		record, err := service.Get(c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(record)
	})
}

type createResponse struct {
	ID string `json:"id"`
}
