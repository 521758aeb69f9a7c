package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Handlers groups every HTTP handler mounted under /api.
type Handlers struct {
	Auth           *handlers.AuthHandler
	Health         *handlers.HealthHandler
	Settings       *handlers.SettingsHandler
	Legal          *handlers.LegalHandler
	Tramites       *handlers.TramiteHandler
	Reservas       *handlers.ReservaHandler
	Documentos     *handlers.DocumentoHandler
	Municipal      *handlers.MunicipalHandler
	AI             *handlers.AIHandler
	Notificaciones *handlers.NotificacionHandler
}

func Setup(app *fiber.App, cfg *config.Config, sessions session.Store, h Handlers) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	authed := []fiber.Handler{middleware.JWTProtected(cfg), middleware.SessionGuard(sessions)}
	with := func(extra ...fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, authed...), extra...)
	}

	api.Get("/health", h.Health.Check)

	// Public settings; edits are admin only
	api.Get("/settings", h.Settings.GetSettings)

	api.Get("/legal/privacy", h.Legal.PrivacyPolicy)
	api.Get("/legal/terms", h.Legal.TermsOfService)
	adminGroup := api.Group("/admin", with(middleware.AdminRequired())...)
	adminGroup.Put("/settings/:key", middleware.AuditAccess(), h.Settings.SetKey)
	adminGroup.Delete("/settings/:key", middleware.AuditAccess(), h.Settings.DeleteKey)

	// Users. Register and login get a stricter 10 req/min per IP.
	users := api.Group("/users")
	authLimit := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	users.Post("/register", authLimit, h.Auth.Register)
	users.Post("/login", authLimit, h.Auth.Login)
	users.Post("/logout", with(h.Auth.Logout)...)
	users.Get("/profile", with(h.Auth.Profile)...)
	users.Get("/", with(middleware.StaffRequired(), middleware.AuditAccess(), h.Auth.ListUsers)...)
	users.Put("/:id/role", with(middleware.AdminRequired(), middleware.AuditAccess(), h.Auth.ChangeRole)...)

	tramites := api.Group("/tramites")
	tramites.Get("/", with(h.Tramites.List)...)
	tramites.Post("/create", with(middleware.AdminRequired(), h.Tramites.Create)...)
	tramites.Put("/update/:id", with(middleware.AdminRequired(), h.Tramites.Update)...)
	tramites.Delete("/delete/:id", with(middleware.AdminRequired(), h.Tramites.Delete)...)
	tramites.Get("/:id", with(h.Tramites.Get)...)

	reservas := api.Group("/reservas", authed...)
	reservas.Post("/reservar", h.Reservas.Create)
	reservas.Get("/usuario", h.Reservas.ListMine)
	reservas.Get("/disponibilidad", h.Reservas.Availability)
	reservas.Get("/all", middleware.StaffRequired(), middleware.AuditAccess(), h.Reservas.ListAll)
	reservas.Put("/anular/:id", h.Reservas.Cancel)
	reservas.Put("/aprobar/:id", middleware.StaffRequired(), h.Reservas.Approve)
	reservas.Put("/rechazar/:id", middleware.StaffRequired(), h.Reservas.Reject)

	documentos := api.Group("/documentos", authed...)
	documentos.Post("/upload", h.Documentos.Upload)
	documentos.Get("/reserva/:reserva_id", h.Documentos.ListByReserva)
	documentos.Get("/download/:nombre", h.Documentos.Download)

	municipales := api.Group("/municipales")
	municipales.Get("/consultar", h.Municipal.Consult)
	municipales.Post("/generar-datos", with(middleware.StaffRequired(), h.Municipal.Generate)...)

	ai := api.Group("/ai")
	ai.Post("/chat", middleware.OptionalAuth(cfg), middleware.OptionalSessionGuard(sessions), h.AI.Chat)
	ai.Post("/vencimientos", with(middleware.StaffRequired(), middleware.AuditAccess(), h.AI.Vencimientos)...)
	ai.Get("/faq", h.AI.FAQ)
	ai.Get("/faq/buscar", h.AI.SearchFAQ)
	ai.Get("/faq/:id", h.AI.GetFAQ)
	ai.Get("/historial", with(h.AI.History)...)
	ai.Get("/sugerencias", h.AI.Suggestions)

	api.Post("/notificaciones/enviar", with(middleware.AdminRequired(), middleware.AuditAccess(), h.Notificaciones.Send)...)
}
