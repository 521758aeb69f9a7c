package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KeyMaxUploadMB mirrors the server's upload limit and cannot be edited.
const KeyMaxUploadMB = "max_upload_mb"

var settingTypes = map[string]bool{"string": true, "bool": true, "int": true, "json": true}

type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// Public returns every setting decoded to its declared type.
func (s *SettingsService) Public(ctx context.Context) (map[string]interface{}, error) {
	var settings []models.Setting
	if err := s.db.WithContext(ctx).Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	result := make(map[string]interface{}, len(settings))
	for _, st := range settings {
		v, err := decodeSetting(st.Type, st.Value)
		if err != nil {
			v = st.Value
		}
		result[st.Key] = v
	}
	return result, nil
}

func (s *SettingsService) Set(ctx context.Context, key, value, typ string) (*models.Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, Invalid("La clave es requerida")
	}
	if key == KeyMaxUploadMB {
		return nil, Invalid("max_upload_mb se define en la configuración del servidor")
	}
	if typ == "" {
		typ = "string"
	}
	if !settingTypes[typ] {
		return nil, Invalid("Tipo inválido, use string, bool, int o json")
	}
	if _, err := decodeSetting(typ, value); err != nil {
		return nil, Invalid(fmt.Sprintf("Valor inválido para tipo %s", typ))
	}
	st := models.Setting{Key: key, Value: value, Type: typ}
	if err := s.upsert(ctx, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *SettingsService) Delete(ctx context.Context, key string) error {
	if key == KeyMaxUploadMB {
		return Invalid("max_upload_mb se define en la configuración del servidor")
	}
	res := s.db.WithContext(ctx).Where("key = ?", key).Delete(&models.Setting{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete setting: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSettingNotFound
	}
	return nil
}

// SeedDefaults inserts missing defaults and always refreshes max_upload_mb
// from the running configuration.
func (s *SettingsService) SeedDefaults(ctx context.Context, maxUploadMB int) error {
	defaults := []models.Setting{
		{Key: "municipality_name", Value: "Municipalidad de Linares", Type: "string"},
		{Key: "office_hours", Value: "Lunes a viernes 08:00-17:00, sábados 09:00-13:00", Type: "string"},
		{Key: "slot_minutes", Value: "30", Type: "int"},
		{Key: "maintenance_mode", Value: "false", Type: "bool"},
	}
	db := s.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "key"}}, DoNothing: true}).Create(&defaults).Error; err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}
	limit := models.Setting{Key: KeyMaxUploadMB, Value: strconv.Itoa(maxUploadMB), Type: "int"}
	return s.upsert(ctx, &limit)
}

func (s *SettingsService) upsert(ctx context.Context, st *models.Setting) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "type", "updated_at"}),
	}).Create(st).Error
	if err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	return nil
}

func decodeSetting(typ, value string) (interface{}, error) {
	switch typ {
	case "bool":
		return strconv.ParseBool(value)
	case "int":
		return strconv.Atoi(value)
	case "json":
		var v interface{}
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			return nil, err
		}
		return v, nil
	case "string":
		return value, nil
	}
	return nil, errors.New("unknown setting type")
}
