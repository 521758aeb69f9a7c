package handlers

import (
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ReservaHandler struct {
	responder
	reservas *services.ReservaService
}

func NewReservaHandler(reservas *services.ReservaService, production bool) *ReservaHandler {
	return &ReservaHandler{responder: responder{production: production}, reservas: reservas}
}

func (h *ReservaHandler) Create(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return h.fail(c, services.ErrInvalidCredentials)
	}
	var req dto.CreateReservaRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	reserva, err := h.reservas.Create(c.UserContext(), userID, &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ReservaResponse{Message: "Reserva creada correctamente", Reserva: reserva})
}

func (h *ReservaHandler) ListMine(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return h.fail(c, services.ErrInvalidCredentials)
	}
	list, err := h.reservas.ListByUser(c.UserContext(), userID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

func (h *ReservaHandler) ListAll(c *fiber.Ctx) error {
	list, err := h.reservas.ListAll(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

func (h *ReservaHandler) Availability(c *fiber.Ctx) error {
	fecha := c.Query("fecha")
	ocupadas, err := h.reservas.Availability(c.UserContext(), fecha)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.DisponibilidadResponse{Fecha: fecha, Ocupadas: ocupadas})
}

func (h *ReservaHandler) Cancel(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return h.fail(c, services.ErrInvalidCredentials)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	reserva, err := h.reservas.Cancel(c.UserContext(), id, userID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.ReservaResponse{Message: "Reserva anulada", Reserva: reserva})
}

func (h *ReservaHandler) Approve(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	reserva, err := h.reservas.Approve(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.ReservaResponse{Message: "Reserva confirmada", Reserva: reserva})
}

func (h *ReservaHandler) Reject(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	var req dto.RejectReservaRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badBody(c)
		}
	}
	reserva, err := h.reservas.Reject(c.UserContext(), id, req.Motivo)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.ReservaResponse{Message: "Reserva rechazada", Reserva: reserva})
}
