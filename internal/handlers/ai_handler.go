package handlers

import (
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

const defaultDiasAnticipacion = 30

type AIHandler struct {
	responder
	assistant *services.AssistantService
}

func NewAIHandler(assistant *services.AssistantService, production bool) *AIHandler {
	return &AIHandler{responder: responder{production: production}, assistant: assistant}
}

// Chat answers anonymous and authenticated callers alike; only the latter get
// licence lookups and a stored history.
func (h *AIHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	who, _ := identity.From(c)

	resp, err := h.assistant.Answer(c.UserContext(), req.Pregunta, who.ID, who.RUT)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

func (h *AIHandler) Vencimientos(c *fiber.Ctx) error {
	var req dto.VencimientosRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badBody(c)
		}
	}
	dias := defaultDiasAnticipacion
	if req.DiasAnticipacion != nil {
		dias = *req.DiasAnticipacion
	}

	list, err := h.assistant.DetectUpcomingExpirations(c.UserContext(), dias)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.VencimientosResponse{DiasAnticipacion: dias, Total: len(list), Vencimientos: list})
}

func (h *AIHandler) FAQ(c *fiber.Ctx) error {
	return c.JSON(h.assistant.FAQs(c.UserContext()))
}

func (h *AIHandler) GetFAQ(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	faq, err := h.assistant.FAQ(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(faq)
}

func (h *AIHandler) SearchFAQ(c *fiber.Ctx) error {
	faqs, err := h.assistant.SearchFAQs(c.UserContext(), c.Query("termino"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(faqs)
}

func (h *AIHandler) History(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return h.fail(c, services.ErrInvalidCredentials)
	}
	convs, err := h.assistant.History(c.UserContext(), userID, c.QueryInt("limite", 0))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(convs)
}

func (h *AIHandler) Suggestions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"preguntas": h.assistant.SuggestedQuestions(c.Query("contexto", "general"))})
}
