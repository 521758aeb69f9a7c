package handlers

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type NotificacionHandler struct {
	responder
	notifications *services.NotificationService
}

func NewNotificacionHandler(notifications *services.NotificationService, production bool) *NotificacionHandler {
	return &NotificacionHandler{responder: responder{production: production}, notifications: notifications}
}

// Send queues a mass notification; delivery continues in the background.
func (h *NotificacionHandler) Send(c *fiber.Ctx) error {
	var req dto.NotificacionRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	n, err := h.notifications.Send(req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NotificacionResponse{
		Message:  fmt.Sprintf("Notificación enviada a %d contribuyente(s)", n),
		Enviados: n,
	})
}
