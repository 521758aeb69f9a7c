package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/models"
	"gorm.io/gorm"
)

const defaultDuracion = 30

type TramiteService struct {
	db *gorm.DB
}

func NewTramiteService(db *gorm.DB) *TramiteService {
	return &TramiteService{db: db}
}

func (s *TramiteService) List(ctx context.Context) ([]models.Tramite, error) {
	tramites := []models.Tramite{}
	if err := s.db.WithContext(ctx).Order("id").Find(&tramites).Error; err != nil {
		return nil, fmt.Errorf("failed to list tramites: %w", err)
	}
	return tramites, nil
}

func (s *TramiteService) Get(ctx context.Context, id uint) (*models.Tramite, error) {
	var t models.Tramite
	err := s.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTramiteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tramite: %w", err)
	}
	return &t, nil
}

func (s *TramiteService) Create(ctx context.Context, req dto.TramiteRequest) (*models.Tramite, error) {
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		return nil, ErrMissingFields
	}
	if req.DuracionEstimada < 0 {
		return nil, Invalid("La duración estimada no puede ser negativa")
	}
	if req.DuracionEstimada == 0 {
		req.DuracionEstimada = defaultDuracion
	}
	t := models.Tramite{
		Nombre:           nombre,
		Descripcion:      strings.TrimSpace(req.Descripcion),
		Requisitos:       strings.TrimSpace(req.Requisitos),
		DuracionEstimada: req.DuracionEstimada,
	}
	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, fmt.Errorf("failed to create tramite: %w", err)
	}
	return &t, nil
}

// Update overwrites only the non-blank fields of req.
func (s *TramiteService) Update(ctx context.Context, id uint, req dto.TramiteRequest) (*models.Tramite, error) {
	if req.DuracionEstimada < 0 {
		return nil, Invalid("La duración estimada no puede ser negativa")
	}
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(req.Nombre); v != "" {
		t.Nombre = v
	}
	if v := strings.TrimSpace(req.Descripcion); v != "" {
		t.Descripcion = v
	}
	if v := strings.TrimSpace(req.Requisitos); v != "" {
		t.Requisitos = v
	}
	if req.DuracionEstimada > 0 {
		t.DuracionEstimada = req.DuracionEstimada
	}
	if err := s.db.WithContext(ctx).Save(t).Error; err != nil {
		return nil, fmt.Errorf("failed to update tramite: %w", err)
	}
	return t, nil
}

// Delete refuses to remove a tramite that bookings still reference.
func (s *TramiteService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t models.Tramite
		err := tx.First(&t, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTramiteNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load tramite: %w", err)
		}

		var n int64
		if err := tx.Model(&models.Reserva{}).Where("tramite_id = ?", id).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to count reservas: %w", err)
		}
		if n > 0 {
			return ErrTramiteInUse
		}
		if err := tx.Delete(&t).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return ErrTramiteInUse
			}
			return fmt.Errorf("failed to delete tramite: %w", err)
		}
		return nil
	})
}

var defaultTramites = []dto.TramiteRequest{
	{Nombre: "Licencia de conducir (primera vez)", Descripcion: "Obtención de licencia Clase B", Requisitos: "Cédula de identidad, certificado médico, certificado de antecedentes", DuracionEstimada: 60},
	{Nombre: "Renovación de licencia", Descripcion: "Renovación de licencia vigente o vencida hace menos de 3 años", Requisitos: "Cédula de identidad, certificado médico actualizado", DuracionEstimada: 30},
	{Nombre: "Permiso de circulación", Descripcion: "Pago y emisión del permiso de circulación anual", Requisitos: "Padrón, revisión técnica, SOAP", DuracionEstimada: 20},
}

// SeedDefaults fills an empty catalogue.
func (s *TramiteService) SeedDefaults(ctx context.Context) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Tramite{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, req := range defaultTramites {
		if _, err := s.Create(ctx, req); err != nil {
			return err
		}
	}
	return nil
}
