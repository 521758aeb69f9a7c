package handlers

import (
	"context"
	"html"

	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

const defaultMunicipality = "Municipalidad de Linares"

// LegalHandler serves the privacy notice and terms of use of the citizen
// portal. The municipality name comes from the public settings.
type LegalHandler struct {
	settings *services.SettingsService
}

func NewLegalHandler(settings *services.SettingsService) *LegalHandler {
	return &LegalHandler{settings: settings}
}

func (h *LegalHandler) municipality(ctx context.Context) string {
	public, err := h.settings.Public(ctx)
	if err != nil {
		return defaultMunicipality
	}
	if name, ok := public["municipality_name"].(string); ok && name != "" {
		return html.EscapeString(name)
	}
	return defaultMunicipality
}

func (h *LegalHandler) PrivacyPolicy(c *fiber.Ctx) error {
	name := h.municipality(c.UserContext())

	return c.Type("html").SendString(`<!DOCTYPE html>
<html lang="es"><head><meta charset="utf-8"><title>Política de Privacidad - ` + name + `</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>body{font-family:-apple-system,BlinkMacSystemFont,sans-serif;max-width:800px;margin:0 auto;padding:20px;color:#333}h1{color:#0d47a1}h2{color:#444;margin-top:30px}</style>
</head><body>
<h1>Política de Privacidad</h1>
<p>Última actualización: octubre 2026</p>
<h2>Datos que recopilamos</h2>
<p>RUT, nombre, correo electrónico, reservas de atención y los documentos que usted adjunta a ellas. Las consultas al asistente virtual se guardan asociadas a su cuenta.</p>
<h2>Uso de la información</h2>
<p>Sus datos se usan únicamente para gestionar sus trámites en ` + name + `, enviarle avisos sobre sus reservas y recordatorios de vencimiento de licencia.</p>
<h2>Conservación</h2>
<p>Los registros de seguridad se conservan 30 días. Los documentos se mantienen mientras exista la reserva asociada.</p>
<h2>Sus derechos</h2>
<p>Conforme a la Ley 19.628, puede solicitar acceso, rectificación o eliminación de sus datos en las oficinas municipales.</p>
</body></html>`)
}

func (h *LegalHandler) TermsOfService(c *fiber.Ctx) error {
	name := h.municipality(c.UserContext())

	return c.Type("html").SendString(`<!DOCTYPE html>
<html lang="es"><head><meta charset="utf-8"><title>Términos de Uso - ` + name + `</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>body{font-family:-apple-system,BlinkMacSystemFont,sans-serif;max-width:800px;margin:0 auto;padding:20px;color:#333}h1{color:#0d47a1}h2{color:#444;margin-top:30px}</style>
</head><body>
<h1>Términos de Uso</h1>
<p>Última actualización: octubre 2026</p>
<h2>Aceptación</h2>
<p>Al usar el portal ciudadano de ` + name + ` usted acepta estos términos.</p>
<h2>Reservas</h2>
<p>Cada hora de atención admite una sola reserva vigente. Las reservas pueden ser confirmadas o rechazadas por funcionarios municipales.</p>
<h2>Documentos</h2>
<p>Solo se aceptan archivos PDF, JPG o PNG dentro del tamaño máximo publicado.</p>
<h2>Asistente virtual</h2>
<p>Las respuestas del asistente son orientativas. Las consultas con lenguaje inapropiado son rechazadas.</p>
<h2>Sesiones</h2>
<p>Solo se permite una sesión activa por cuenta; iniciar sesión en otro dispositivo cierra la anterior.</p>
</body></html>`)
}
