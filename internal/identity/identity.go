// Package identity reads the authenticated caller out of the Fiber context.
package identity

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var ErrNoIdentity = errors.New("no authenticated user in context")

// Identity is the subset of JWT claims the handlers work with.
type Identity struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	RUT   string `json:"rut"`
	Role  string `json:"role"`
}

func claims(c *fiber.Ctx) (jwt.MapClaims, bool) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, false
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	return mc, ok
}

// From extracts the identity carried by the verified token.
func From(c *fiber.Ctx) (Identity, error) {
	mc, ok := claims(c)
	if !ok {
		return Identity{}, ErrNoIdentity
	}
	// JSON numbers decode as float64.
	id, ok := mc["id"].(float64)
	if !ok || id <= 0 {
		return Identity{}, errors.New("missing id claim")
	}
	email, _ := mc["email"].(string)
	rut, _ := mc["rut"].(string)
	role, _ := mc["role"].(string)
	return Identity{ID: uint(id), Email: email, RUT: rut, Role: role}, nil
}

// GetUserID returns the caller's user id or an error when unauthenticated.
func GetUserID(c *fiber.Ctx) (uint, error) {
	who, err := From(c)
	if err != nil {
		return 0, err
	}
	return who.ID, nil
}

// Token returns the raw bearer token of the request, if it was verified.
func Token(c *fiber.Ctx) string {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return ""
	}
	return token.Raw
}
