package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/database/dbtest"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/services"
)

func TestSettingsSeedAndPublic(t *testing.T) {
	svc := services.NewSettingsService(dbtest.Open(t))
	ctx := context.Background()

	if err := svc.SeedDefaults(ctx, 5); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.Set(ctx, "municipality_name", "Municipalidad de Prueba", ""); err != nil {
		t.Fatalf("set: %v", err)
	}
	// A restart with a new limit keeps edits but refreshes the upload limit.
	if err := svc.SeedDefaults(ctx, 8); err != nil {
		t.Fatalf("seed again: %v", err)
	}

	public, err := svc.Public(ctx)
	if err != nil {
		t.Fatalf("public: %v", err)
	}
	if public["max_upload_mb"] != 8 {
		t.Errorf("expected max_upload_mb 8, got %v", public["max_upload_mb"])
	}
	if public["municipality_name"] != "Municipalidad de Prueba" {
		t.Errorf("expected edited name, got %v", public["municipality_name"])
	}
	if public["maintenance_mode"] != false {
		t.Errorf("expected typed bool, got %#v", public["maintenance_mode"])
	}
}

func TestSettingsValidation(t *testing.T) {
	svc := services.NewSettingsService(dbtest.Open(t))
	ctx := context.Background()

	tests := []struct {
		key, value, typ string
	}{
		{"", "x", "string"},
		{"slot_minutes", "treinta", "int"},
		{"maintenance_mode", "quizas", "bool"},
		{"banner", "{", "json"},
		{"banner", "x", "float"},
		{services.KeyMaxUploadMB, "50", "int"},
	}
	for _, tt := range tests {
		if _, err := svc.Set(ctx, tt.key, tt.value, tt.typ); !errors.Is(err, services.ErrValidation) {
			t.Errorf("Set(%q, %q, %q): expected validation error, got %v", tt.key, tt.value, tt.typ, err)
		}
	}

	if _, err := svc.Set(ctx, "banner", `{"texto":"Hola"}`, "json"); err != nil {
		t.Fatalf("set json: %v", err)
	}
	public, _ := svc.Public(ctx)
	banner, ok := public["banner"].(map[string]interface{})
	if !ok || banner["texto"] != "Hola" {
		t.Errorf("expected decoded json, got %#v", public["banner"])
	}
}

func TestSettingsDelete(t *testing.T) {
	svc := services.NewSettingsService(dbtest.Open(t))
	ctx := context.Background()

	if _, err := svc.Set(ctx, "aviso", "Cerrado el lunes", "string"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := svc.Delete(ctx, "aviso"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, "aviso"); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
