package services_test

import (
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/notify"
	"gorm.io/gorm"
)

type fakeMailer struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (f *fakeMailer) Async(msg notify.Message) {
	f.mu.Lock()
	f.msgs = append(f.msgs, msg)
	f.mu.Unlock()
}

func (f *fakeMailer) subjects() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.msgs))
	for i, m := range f.msgs {
		out[i] = m.Subject
	}
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:   "test-secret",
		JWTExpiry:   time.Hour,
		BcryptCost:  10,
		SessionTTL:  time.Hour,
		AdminToken:  "admin-token",
		MaxUploadMB: 5,
		AppEnv:      "test",
	}
}

func createUser(t *testing.T, db *gorm.DB, rut, email, role string) models.User {
	t.Helper()
	u := models.User{RUT: rut, Nombre: "Usuario " + rut, Email: email, PasswordHash: "x", Role: role}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func createTramite(t *testing.T, db *gorm.DB, nombre string) models.Tramite {
	t.Helper()
	tr := models.Tramite{Nombre: nombre, Descripcion: "desc", DuracionEstimada: 30}
	if err := db.Create(&tr).Error; err != nil {
		t.Fatalf("create tramite: %v", err)
	}
	return tr
}
