package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	responder
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService, production bool) *AuthHandler {
	return &AuthHandler{responder: responder{production: production}, authService: authService}
}

// Register creates a citizen account. Staff roles need the X-Admin-Token header.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.authService.Register(c.UserContext(), &req, c.Get("X-Admin-Token"))
	if err != nil {
		return h.fail(c, err)
	}

	logging.Audit(logging.AuditEvent{
		Type: logging.EventAuthSuccess, UserID: resp.User.ID, IP: c.IP(), Path: c.Path(), Reason: "register",
	})
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) || errors.Is(err, services.ErrValidation) {
			logging.Audit(logging.AuditEvent{
				Type: logging.EventAuthFailed, IP: c.IP(), Path: c.Path(), Reason: err.Error(),
			})
		}
		return h.fail(c, err)
	}

	logging.Audit(logging.AuditEvent{
		Type: logging.EventAuthSuccess, UserID: resp.User.ID, IP: c.IP(), Path: c.Path(),
	})
	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return h.fail(c, services.ErrInvalidCredentials)
	}
	if err := h.authService.Logout(c.UserContext(), userID); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Sesión cerrada correctamente"})
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	who, err := identity.From(c)
	if err != nil {
		return h.fail(c, services.ErrInvalidCredentials)
	}
	return c.JSON(fiber.Map{"user": who})
}

func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.authService.ListUsers(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, services.ToUserResponse(&users[i]))
	}
	return c.JSON(out)
}

func (h *AuthHandler) ChangeRole(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	var req dto.ChangeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	user, err := h.authService.ChangeRole(c.UserContext(), id, req.Role)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Rol actualizado", "user": services.ToUserResponse(user)})
}
