package handlers

import (
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type TramiteHandler struct {
	responder
	tramites *services.TramiteService
}

func NewTramiteHandler(tramites *services.TramiteService, production bool) *TramiteHandler {
	return &TramiteHandler{responder: responder{production: production}, tramites: tramites}
}

func (h *TramiteHandler) List(c *fiber.Ctx) error {
	list, err := h.tramites.List(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

func (h *TramiteHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	t, err := h.tramites.Get(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(t)
}

func (h *TramiteHandler) Create(c *fiber.Ctx) error {
	var req dto.TramiteRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	t, err := h.tramites.Create(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

func (h *TramiteHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	var req dto.TramiteRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	t, err := h.tramites.Update(c.UserContext(), id, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(t)
}

func (h *TramiteHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.tramites.Delete(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Trámite eliminado"})
}
