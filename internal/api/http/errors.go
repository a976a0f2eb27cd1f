package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-records/internal/logger"
	"github.com/i474232898/weather-records/internal/weather"
)

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Error  bool   `json:"error"`
	Detail string `json:"detail"`
}

// newErrorHandler maps domain errors to status codes in one place.
func newErrorHandler(log logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, detail := classify(err)
		if code >= fiber.StatusInternalServerError {
			log.Errorf("%s %s failed: %v", c.Method(), c.Path(), err)
		}
		return c.Status(code).JSON(errorResponse{Error: true, Detail: detail})
	}
}

func classify(err error) (int, string) {
	var (
		fe   *fiber.Error
		verr *weather.ValidationError
		perr *weather.ProviderError
	)

	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, verr.Error()
	case errors.As(err, &perr):
		return fiber.StatusBadRequest, perr.Error()
	case errors.Is(err, weather.ErrNotFound):
		return fiber.StatusNotFound, "Weather data not found"
	case errors.Is(err, weather.ErrCircuitOpen):
		return fiber.StatusServiceUnavailable, "weather provider temporarily unavailable"
	case errors.Is(err, weather.ErrProviderUnavailable):
		return fiber.StatusBadGateway, "weather provider unavailable"
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}
