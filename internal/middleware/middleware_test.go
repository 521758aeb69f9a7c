package middleware

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var testCfg = &config.Config{JWTSecret: "test-secret"}

func signed(t *testing.T, id uint, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   id,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(testCfg.JWTSecret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func get(t *testing.T, app *fiber.App, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func ok(c *fiber.Ctx) error {
	return c.SendString("ok")
}

func TestSessionGuard(t *testing.T) {
	sessions := session.NewMemoryStore(0)
	app := fiber.New()
	app.Get("/", JWTProtected(testCfg), SessionGuard(sessions), ok)

	current := signed(t, 7, models.RoleCiudadano)
	sessions.Set(context.Background(), 7, current, time.Hour)

	if status, _ := get(t, app, current); status != fiber.StatusOK {
		t.Errorf("current session: status %d", status)
	}
	if status, _ := get(t, app, signed(t, 7, models.RoleAdmin)); status != fiber.StatusUnauthorized {
		t.Errorf("stale token: expected 401, got %d", status)
	}
	if status, _ := get(t, app, ""); status != fiber.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", status)
	}
	if status, _ := get(t, app, "not-a-jwt"); status != fiber.StatusUnauthorized {
		t.Errorf("garbage token: expected 401, got %d", status)
	}
}

func TestRequireRoles(t *testing.T) {
	app := fiber.New()
	app.Get("/", JWTProtected(testCfg), StaffRequired(), ok)

	tests := []struct {
		role string
		want int
	}{
		{models.RoleCiudadano, fiber.StatusForbidden},
		{models.RoleFuncionario, fiber.StatusOK},
		{models.RoleAdmin, fiber.StatusOK},
	}
	for _, tt := range tests {
		if status, _ := get(t, app, signed(t, 1, tt.role)); status != tt.want {
			t.Errorf("role %s: status %d, want %d", tt.role, status, tt.want)
		}
	}
}

func TestOptionalAuth(t *testing.T) {
	sessions := session.NewMemoryStore(0)
	app := fiber.New()
	app.Get("/", OptionalAuth(testCfg), OptionalSessionGuard(sessions), func(c *fiber.Ctx) error {
		id, _ := identity.GetUserID(c)
		return c.JSON(id)
	})

	current := signed(t, 9, models.RoleCiudadano)
	sessions.Set(context.Background(), 9, current, time.Hour)

	tests := []struct {
		name, token, want string
	}{
		{"anonymous", "", "0"},
		{"active session", current, "9"},
		{"superseded session", signed(t, 9, models.RoleAdmin), "0"},
		{"invalid token", "not-a-jwt", "0"},
	}
	for _, tt := range tests {
		status, body := get(t, app, tt.token)
		if status != fiber.StatusOK || body != tt.want {
			t.Errorf("%s: got %d %q, want 200 %q", tt.name, status, body, tt.want)
		}
	}
}

func TestCORSExposesDownloadHeaders(t *testing.T) {
	app := fiber.New()
	app.Use(CORS(&config.Config{CORSOrigins: "*"}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://tramites.linares.cl")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if got := resp.Header.Get("Access-Control-Expose-Headers"); !strings.Contains(got, "Content-Disposition") {
		t.Errorf("expected Content-Disposition to be exposed, got %q", got)
	}
}
