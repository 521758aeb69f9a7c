package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/notify"
	"gorm.io/gorm"
)

// DefaultMotivoRechazo is stored when staff reject without a reason.
const DefaultMotivoRechazo = "Sin motivo especificado"

// Mailer queues an e-mail without waiting for delivery.
type Mailer interface {
	Async(msg notify.Message)
}

type ReservaService struct {
	db     *gorm.DB
	mailer Mailer
}

func NewReservaService(db *gorm.DB, mailer Mailer) *ReservaService {
	return &ReservaService{db: db, mailer: mailer}
}

// ParseFecha validates a YYYY-MM-DD date.
func ParseFecha(s string) (string, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return "", ErrInvalidFecha
	}
	return t.Format("2006-01-02"), nil
}

// ParseHora accepts H:MM, HH:MM or HH:MM:SS and returns HH:MM.
func ParseHora(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", ErrInvalidHora
}

// Create books a slot for usuarioID. At most one live booking may exist per
// (fecha, hora); the database index backs up the in-transaction check.
func (s *ReservaService) Create(ctx context.Context, usuarioID uint, req *dto.CreateReservaRequest) (*models.Reserva, error) {
	if req.TramiteID == 0 || strings.TrimSpace(req.Fecha) == "" || strings.TrimSpace(req.Hora) == "" {
		return nil, ErrMissingFields
	}
	fecha, err := ParseFecha(req.Fecha)
	if err != nil {
		return nil, err
	}
	hora, err := ParseHora(req.Hora)
	if err != nil {
		return nil, err
	}

	reserva := models.Reserva{
		UsuarioID:     usuarioID,
		TramiteID:     req.TramiteID,
		Fecha:         fecha,
		Hora:          hora,
		Estado:        models.EstadoPendiente,
		Observaciones: strings.TrimSpace(req.Observaciones),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tramite models.Tramite
		if err := tx.Select("id").First(&tramite, req.TramiteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTramiteNotFound
			}
			return err
		}

		var taken int64
		if err := tx.Model(&models.Reserva{}).
			Where("fecha = ? AND hora = ? AND estado <> ?", fecha, hora, models.EstadoAnulada).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrSlotTaken
		}
		return tx.Create(&reserva).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlotTaken
		}
		var appErr *Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create reserva: %w", err)
	}

	s.notify(ctx, reserva.ID, "", notify.BookingCreated)
	return &reserva, nil
}

func (s *ReservaService) detalle(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("reservas r").
		Select(`r.id, r.usuario_id, u.nombre AS usuario, u.rut, u.email, r.tramite_id,
			t.nombre AS tramite, r.fecha, r.hora, r.estado, r.observaciones, r.motivo_rechazo`).
		Joins("JOIN usuarios u ON u.id = r.usuario_id").
		Joins("JOIN tramites t ON t.id = r.tramite_id")
}

// ListByUser returns the user's bookings, newest first.
func (s *ReservaService) ListByUser(ctx context.Context, usuarioID uint) ([]models.ReservaDetalle, error) {
	rows := []models.ReservaDetalle{}
	err := s.detalle(ctx).
		Where("r.usuario_id = ?", usuarioID).
		Order("r.fecha DESC, r.hora DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reservas: %w", err)
	}
	return rows, nil
}

// ListAll returns every booking joined with citizen and tramite names.
func (s *ReservaService) ListAll(ctx context.Context) ([]models.ReservaDetalle, error) {
	rows := []models.ReservaDetalle{}
	err := s.detalle(ctx).
		Order("r.fecha DESC, r.hora DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reservas: %w", err)
	}
	return rows, nil
}

// Availability lists the hours already taken on fecha.
func (s *ReservaService) Availability(ctx context.Context, fecha string) ([]string, error) {
	fecha, err := ParseFecha(fecha)
	if err != nil {
		return nil, err
	}
	horas := []string{}
	err = s.db.WithContext(ctx).Model(&models.Reserva{}).
		Where("fecha = ? AND estado <> ?", fecha, models.EstadoAnulada).
		Order("hora").
		Pluck("hora", &horas).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load availability: %w", err)
	}
	return horas, nil
}

// Cancel lets the owner release a pendiente or confirmada booking. A booking
// of another user is reported as not found.
func (s *ReservaService) Cancel(ctx context.Context, id, usuarioID uint) (*models.Reserva, error) {
	reserva, err := s.find(ctx, "id = ? AND usuario_id = ?", id, usuarioID)
	if err != nil {
		return nil, err
	}
	if reserva.Estado == models.EstadoAnulada {
		return nil, ErrInvalidTransition
	}
	if err := s.transition(ctx, reserva, []string{models.EstadoPendiente, models.EstadoConfirmada}, map[string]interface{}{
		"estado": models.EstadoAnulada,
	}); err != nil {
		return nil, err
	}

	s.notify(ctx, reserva.ID, "", notify.BookingCancelled)
	return reserva, nil
}

func (s *ReservaService) Approve(ctx context.Context, id uint) (*models.Reserva, error) {
	reserva, err := s.find(ctx, "id = ?", id)
	if err != nil {
		return nil, err
	}
	if reserva.Estado != models.EstadoPendiente {
		return nil, ErrInvalidTransition
	}
	if err := s.transition(ctx, reserva, []string{models.EstadoPendiente}, map[string]interface{}{
		"estado": models.EstadoConfirmada,
	}); err != nil {
		return nil, err
	}

	s.notify(ctx, reserva.ID, "", notify.BookingApproved)
	return reserva, nil
}

func (s *ReservaService) Reject(ctx context.Context, id uint, motivo string) (*models.Reserva, error) {
	motivo = strings.TrimSpace(motivo)
	if motivo == "" {
		motivo = DefaultMotivoRechazo
	}

	reserva, err := s.find(ctx, "id = ?", id)
	if err != nil {
		return nil, err
	}
	if reserva.Estado != models.EstadoPendiente {
		return nil, ErrInvalidTransition
	}
	if err := s.transition(ctx, reserva, []string{models.EstadoPendiente}, map[string]interface{}{
		"estado":         models.EstadoAnulada,
		"motivo_rechazo": motivo,
	}); err != nil {
		return nil, err
	}

	s.notify(ctx, reserva.ID, motivo, notify.BookingRejected)
	return reserva, nil
}

func (s *ReservaService) find(ctx context.Context, query string, args ...interface{}) (*models.Reserva, error) {
	var reserva models.Reserva
	if err := s.db.WithContext(ctx).Where(query, args...).First(&reserva).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservaNotFound
		}
		return nil, fmt.Errorf("failed to load reserva: %w", err)
	}
	return &reserva, nil
}

// transition applies updates only while the row is still in one of from.
// A concurrent change in between surfaces as ErrInvalidTransition.
func (s *ReservaService) transition(ctx context.Context, reserva *models.Reserva, from []string, updates map[string]interface{}) error {
	result := s.db.WithContext(ctx).Model(&models.Reserva{}).
		Where("id = ? AND estado IN ?", reserva.ID, from).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update reserva: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInvalidTransition
	}

	reserva.Estado = updates["estado"].(string)
	if motivo, ok := updates["motivo_rechazo"].(string); ok {
		reserva.MotivoRechazo = motivo
	}
	return nil
}

func (s *ReservaService) notify(ctx context.Context, id uint, motivo string, build func(notify.Booking) (notify.Message, error)) {
	if s.mailer == nil {
		return
	}
	var d models.ReservaDetalle
	if err := s.detalle(ctx).Where("r.id = ?", id).Scan(&d).Error; err != nil || d.ID == 0 {
		slog.Warn("reserva notification skipped", "reserva_id", id, "error", err)
		return
	}
	msg, err := build(notify.Booking{
		Nombre:  d.Usuario,
		Email:   d.Email,
		Tramite: d.Tramite,
		Fecha:   d.Fecha,
		Hora:    d.Hora,
		Motivo:  motivo,
	})
	if err != nil {
		slog.Error("failed to render reserva email", "reserva_id", id, "error", err)
		return
	}
	s.mailer.Async(msg)
}
