package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/services"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

// responder turns service errors into JSON error bodies. Internal error text
// is only exposed outside production.
type responder struct {
	production bool
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, services.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(kind, services.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(kind, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(kind, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(kind, services.ErrConflict):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

func (r responder) fail(c *fiber.Ctx, err error) error {
	var se *services.Error
	if errors.As(err, &se) {
		return c.Status(statusFor(se.Kind)).JSON(dto.ErrorResponse{
			Error: true, Message: se.Message,
		})
	}

	slog.Error("request failed",
		"method", c.Method(),
		"path", c.Path(),
		"request_id", c.Locals("requestid"),
		"error", err.Error(),
	)
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}

	resp := dto.ErrorResponse{Error: true, Message: "Error interno del servidor"}
	if !r.production {
		resp.Detail = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(resp)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Cuerpo de la solicitud inválido",
	})
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, services.Invalid("ID inválido")
	}
	return uint(id), nil
}
