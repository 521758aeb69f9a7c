package handlers

import (
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type SettingsHandler struct {
	responder
	settings *services.SettingsService
}

func NewSettingsHandler(settings *services.SettingsService, production bool) *SettingsHandler {
	return &SettingsHandler{responder: responder{production: production}, settings: settings}
}

// GetSettings returns every public setting as a typed map.
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	result, err := h.settings.Public(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(result)
}

// SetKey creates or replaces a setting (admin only).
func (h *SettingsHandler) SetKey(c *fiber.Ctx) error {
	var req dto.SettingRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	st, err := h.settings.Set(c.UserContext(), c.Params("key"), req.Value, req.Type)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"error":   false,
		"message": "Configuración actualizada",
		"setting": st,
	})
}

// DeleteKey removes a setting (admin only).
func (h *SettingsHandler) DeleteKey(c *fiber.Ctx) error {
	if err := h.settings.Delete(c.UserContext(), c.Params("key")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"error":   false,
		"message": "Configuración eliminada",
	})
}
