package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MunicipalService serves the per-citizen municipal status sheet. Records for
// unseen ruts are simulated on first access.
type MunicipalService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewMunicipalService(db *gorm.DB) *MunicipalService {
	return &MunicipalService{db: db, now: time.Now}
}

// DaysUntil is ceil((t - now) / 24h).
func DaysUntil(t, now time.Time) int {
	return int(math.Ceil(t.Sub(now).Hours() / 24))
}

// Find returns the stored record for rut or nil when there is none.
func (s *MunicipalService) Find(ctx context.Context, rut string) (*models.DatosMunicipales, error) {
	var datos models.DatosMunicipales
	err := s.db.WithContext(ctx).Where("rut = ?", NormalizeRUT(rut)).First(&datos).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load datos municipales: %w", err)
	}
	return &datos, nil
}

// Consult returns the record for rut, creating a simulated one if needed.
func (s *MunicipalService) Consult(ctx context.Context, rut string) (*dto.DatosMunicipalesResponse, error) {
	rut = NormalizeRUT(rut)
	if rut == "" {
		return nil, Invalid("RUT es requerido")
	}
	if !ValidRUT(rut) {
		return nil, ErrInvalidRUT
	}

	datos, err := s.Find(ctx, rut)
	if err != nil {
		return nil, err
	}
	if datos == nil {
		if datos, err = s.create(ctx, rut, ""); err != nil {
			return nil, err
		}
	}
	return s.toResponse(datos), nil
}

// Generate creates the simulated record for rut unless one exists.
func (s *MunicipalService) Generate(ctx context.Context, rut, nombre string) (*dto.DatosMunicipalesResponse, error) {
	rut = NormalizeRUT(rut)
	if rut == "" {
		return nil, Invalid("RUT es requerido")
	}
	if !ValidRUT(rut) {
		return nil, ErrInvalidRUT
	}
	datos, err := s.create(ctx, rut, strings.TrimSpace(nombre))
	if err != nil {
		return nil, err
	}
	return s.toResponse(datos), nil
}

func (s *MunicipalService) create(ctx context.Context, rut, nombre string) (*models.DatosMunicipales, error) {
	if nombre == "" {
		nombre = "Ciudadano " + rut
	}
	datos := s.simulate(rut, nombre)

	db := s.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(datos).Error; err != nil {
		return nil, fmt.Errorf("failed to create datos municipales: %w", err)
	}
	// A concurrent request may have won the insert; return whatever is stored.
	var stored models.DatosMunicipales
	if err := db.Where("rut = ?", rut).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("failed to load datos municipales: %w", err)
	}
	return &stored, nil
}

func (s *MunicipalService) simulate(rut, nombre string) *models.DatosMunicipales {
	pick := func() string {
		if rand.Intn(2) == 0 {
			return models.EstadoAlDia
		}
		return models.EstadoConDeuda
	}
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	vence := today.AddDate(0, 0, 10+rand.Intn(355))

	return &models.DatosMunicipales{
		RUT:                      rut,
		Nombre:                   nombre,
		LicenciaNumero:           fmt.Sprintf("LIC-%d-%d", now.Unix(), rand.Intn(10000)),
		LicenciaFechaVencimiento: &vence,
		LicenciaEstado:           pick(),
		PatenteNumero:            fmt.Sprintf("%c%c-%02d", 'A'+rand.Intn(26), 'A'+rand.Intn(26), rand.Intn(100)),
		PatenteEstado:            pick(),
		PermisoEstado:            pick(),
		JuzgadoEstado:            pick(),
		AseoEstado:               pick(),
	}
}

func (s *MunicipalService) toResponse(d *models.DatosMunicipales) *dto.DatosMunicipalesResponse {
	var dias *int
	if d.LicenciaFechaVencimiento != nil {
		n := DaysUntil(*d.LicenciaFechaVencimiento, s.now())
		dias = &n
	}
	return &dto.DatosMunicipalesResponse{
		RUT:    d.RUT,
		Nombre: d.Nombre,
		Licencia: dto.LicenciaInfo{
			Numero:           d.LicenciaNumero,
			FechaVencimiento: d.LicenciaFechaVencimiento,
			Estado:           d.LicenciaEstado,
			DiasParaVencer:   dias,
		},
		Patente:            dto.EstadoItem{Numero: d.PatenteNumero, Estado: d.PatenteEstado},
		PermisoCirculacion: dto.EstadoItem{Estado: d.PermisoEstado},
		Juzgado:            dto.EstadoItem{Estado: d.JuzgadoEstado},
		Aseo:               dto.EstadoItem{Estado: d.AseoEstado},
	}
}
