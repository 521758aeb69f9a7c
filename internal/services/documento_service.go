package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// allowedTypes maps accepted extensions to the MIME type sniffed from content.
var allowedTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// Uploader is the caller of a document operation.
type Uploader struct {
	UserID uint
	Staff  bool
}

type DocumentoService struct {
	db       *gorm.DB
	store    storage.Store
	maxBytes int64
}

func NewDocumentoService(db *gorm.DB, store storage.Store, maxBytes int64) *DocumentoService {
	return &DocumentoService{db: db, store: store, maxBytes: maxBytes}
}

func (s *DocumentoService) MaxBytes() int64 {
	return s.maxBytes
}

// Upload stores file for reservaID. Only the booking owner or staff may
// attach documents.
func (s *DocumentoService) Upload(ctx context.Context, who Uploader, reservaID uint, file *multipart.FileHeader) (*models.Documento, error) {
	if file == nil {
		return nil, ErrFileRequired
	}
	if reservaID == 0 {
		return nil, Invalid("reserva_id es requerido")
	}
	if file.Size > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	want, ok := allowedTypes[ext]
	if !ok {
		return nil, ErrFileType
	}

	if _, err := s.ownedReserva(ctx, who, reservaID); err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]
	if mime := http.DetectContentType(head); mime != want {
		return nil, ErrFileType
	}

	name := uuid.NewString() + ext
	body := io.LimitReader(io.MultiReader(bytes.NewReader(head), src), s.maxBytes+1)
	written, err := s.store.Save(ctx, name, body)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	if written > s.maxBytes {
		s.removeBlob(ctx, name)
		return nil, ErrFileTooLarge
	}

	doc := models.Documento{
		ReservaID:     reservaID,
		NombreArchivo: filepath.Base(file.Filename),
		RutaArchivo:   name,
		TipoMime:      want,
		PesoMB:        math.Round(float64(written)/(1024*1024)*100) / 100,
	}
	if err := s.db.WithContext(ctx).Create(&doc).Error; err != nil {
		s.removeBlob(ctx, name)
		return nil, fmt.Errorf("failed to record documento: %w", err)
	}
	return &doc, nil
}

// ListByReserva returns the documents of a booking, newest first.
func (s *DocumentoService) ListByReserva(ctx context.Context, who Uploader, reservaID uint) ([]models.Documento, error) {
	if _, err := s.ownedReserva(ctx, who, reservaID); err != nil {
		return nil, err
	}
	docs := []models.Documento{}
	err := s.db.WithContext(ctx).
		Where("reserva_id = ?", reservaID).
		Order("subido_en DESC, id DESC").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list documentos: %w", err)
	}
	return docs, nil
}

// Download opens the stored blob named nombre. Only the base component of
// nombre is used.
func (s *DocumentoService) Download(ctx context.Context, who Uploader, nombre string) (*models.Documento, io.ReadCloser, error) {
	base, ok := storage.CleanName(nombre)
	if !ok {
		return nil, nil, ErrDocumentoNotFound
	}

	var doc models.Documento
	if err := s.db.WithContext(ctx).Where("ruta_archivo = ?", base).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrDocumentoNotFound
		}
		return nil, nil, fmt.Errorf("failed to load documento: %w", err)
	}
	if _, err := s.ownedReserva(ctx, who, doc.ReservaID); err != nil {
		return nil, nil, ErrDocumentoNotFound
	}

	rc, err := s.store.Open(ctx, base)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, ErrDocumentoNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open documento: %w", err)
	}
	return &doc, rc, nil
}

func (s *DocumentoService) ownedReserva(ctx context.Context, who Uploader, reservaID uint) (*models.Reserva, error) {
	q := s.db.WithContext(ctx).Where("id = ?", reservaID)
	if !who.Staff {
		q = q.Where("usuario_id = ?", who.UserID)
	}
	var reserva models.Reserva
	if err := q.First(&reserva).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservaNotFound
		}
		return nil, fmt.Errorf("failed to load reserva: %w", err)
	}
	return &reserva, nil
}

func (s *DocumentoService) removeBlob(ctx context.Context, name string) {
	if err := s.store.Remove(ctx, name); err != nil {
		slog.Warn("failed to remove orphan upload", "name", name, "error", err)
	}
}
