package middleware

import (
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

// RequireRoles admits callers whose token carries one of roles. It must run
// after JWTProtected and SessionGuard; a role change revokes the session, so
// the claim is current.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, err := identity.From(c)
		if err != nil {
			return deny401(c, err.Error())
		}
		if contains(roles, who.Role) {
			return c.Next()
		}

		logging.Audit(logging.AuditEvent{
			Type:   logging.EventAccessDenied403,
			UserID: who.ID,
			IP:     c.IP(),
			Path:   c.Path(),
			Reason: "role " + who.Role + " not allowed",
		})
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Acceso denegado",
		})
	}
}

func AdminRequired() fiber.Handler {
	return RequireRoles(models.RoleAdmin)
}

func StaffRequired() fiber.Handler {
	return RequireRoles(models.StaffRoles...)
}

// AuditAccess records successful hits on sensitive endpoints.
func AuditAccess() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil && c.Response().StatusCode() < fiber.StatusBadRequest {
			userID, _ := identity.GetUserID(c)
			logging.Audit(logging.AuditEvent{
				Type:   logging.EventSensitiveAccess,
				UserID: userID,
				IP:     c.IP(),
				Path:   c.Path(),
			})
		}
		return err
	}
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
