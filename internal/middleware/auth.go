package middleware

import (
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/session"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return deny401(c, err.Error())
		},
	})
}

// OptionalAuth verifies a bearer token when one is sent. Requests without a
// token, or with an unusable one, continue anonymously.
func OptionalAuth(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		Filter: func(c *fiber.Ctx) bool {
			return c.Get(fiber.HeaderAuthorization) == ""
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			c.Locals("user", nil)
			return c.Next()
		},
	})
}

// SessionGuard rejects tokens that are no longer the user's active session.
// It must run after JWTProtected.
func SessionGuard(sessions session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ok, err := activeSession(c, sessions)
		if err != nil {
			return err
		}
		if !ok {
			return deny401(c, "session superseded or expired")
		}
		return c.Next()
	}
}

// OptionalSessionGuard drops a stale identity instead of rejecting the request.
func OptionalSessionGuard(sessions session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if identity.Token(c) == "" {
			return c.Next()
		}
		ok, err := activeSession(c, sessions)
		if err != nil {
			return err
		}
		if !ok {
			c.Locals("user", nil)
		}
		return c.Next()
	}
}

func activeSession(c *fiber.Ctx, sessions session.Store) (bool, error) {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return false, nil
	}
	return sessions.Valid(c.UserContext(), userID, identity.Token(c))
}

func deny401(c *fiber.Ctx, reason string) error {
	userID, _ := identity.GetUserID(c)
	logging.Audit(logging.AuditEvent{
		Type:   logging.EventAccessDenied401,
		UserID: userID,
		IP:     c.IP(),
		Path:   c.Path(),
		Reason: reason,
	})
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Message: "No autorizado: token inválido o expirado",
	})
}
