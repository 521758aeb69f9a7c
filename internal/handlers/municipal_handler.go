package handlers

import (
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type MunicipalHandler struct {
	responder
	municipal *services.MunicipalService
}

func NewMunicipalHandler(municipal *services.MunicipalService, production bool) *MunicipalHandler {
	return &MunicipalHandler{responder: responder{production: production}, municipal: municipal}
}

func (h *MunicipalHandler) Consult(c *fiber.Ctx) error {
	datos, err := h.municipal.Consult(c.UserContext(), c.Query("rut"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(datos)
}

func (h *MunicipalHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerarDatosRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	datos, err := h.municipal.Generate(c.UserContext(), req.RUT, req.Nombre)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(datos)
}
