package handlers

import (
	"mime/multipart"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type DocumentoHandler struct {
	responder
	documentos *services.DocumentoService
}

func NewDocumentoHandler(documentos *services.DocumentoService, production bool) *DocumentoHandler {
	return &DocumentoHandler{responder: responder{production: production}, documentos: documentos}
}

func uploader(c *fiber.Ctx) (services.Uploader, error) {
	who, err := identity.From(c)
	if err != nil {
		return services.Uploader{}, services.ErrInvalidCredentials
	}
	return services.Uploader{UserID: who.ID, Staff: models.IsStaffRole(who.Role)}, nil
}

func (h *DocumentoHandler) Upload(c *fiber.Ctx) error {
	who, err := uploader(c)
	if err != nil {
		return h.fail(c, err)
	}

	var file *multipart.FileHeader
	if fh, err := c.FormFile("documento"); err == nil {
		file = fh
	}
	reservaID, _ := strconv.ParseUint(c.FormValue("reserva_id"), 10, 64)

	doc, err := h.documentos.Upload(c.UserContext(), who, uint(reservaID), file)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"msg": "Documento subido correctamente", "documento": doc})
}

func (h *DocumentoHandler) ListByReserva(c *fiber.Ctx) error {
	who, err := uploader(c)
	if err != nil {
		return h.fail(c, err)
	}
	reservaID, err := paramID(c, "reserva_id")
	if err != nil {
		return h.fail(c, err)
	}
	docs, err := h.documentos.ListByReserva(c.UserContext(), who, reservaID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(docs)
}

func (h *DocumentoHandler) Download(c *fiber.Ctx) error {
	who, err := uploader(c)
	if err != nil {
		return h.fail(c, err)
	}
	doc, body, err := h.documentos.Download(c.UserContext(), who, c.Params("nombre"))
	if err != nil {
		return h.fail(c, err)
	}
	c.Attachment(doc.NombreArchivo)
	c.Set(fiber.HeaderContentType, doc.TipoMime)
	// fasthttp closes body once the response is written.
	return c.SendStream(body)
}
