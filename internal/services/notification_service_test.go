package services_test

import (
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/notify"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/services"
)

type fakeBroadcaster struct {
	kind       notify.Kind
	body       string
	recipients []notify.Recipient
}

func (f *fakeBroadcaster) Broadcast(kind notify.Kind, body string, recipients []notify.Recipient) (int, error) {
	f.kind, f.body, f.recipients = kind, body, recipients
	n := 0
	for _, r := range recipients {
		if r.Email != "" {
			n++
		}
	}
	return n, nil
}

func TestNotificationSend(t *testing.T) {
	b := &fakeBroadcaster{}
	svc := services.NewNotificationService(b)

	n, err := svc.Send(dto.NotificacionRequest{
		Mensaje: "Traer su cédula",
		Destinatarios: []dto.Destinatario{
			{Nombre: "Ana", Email: " ana@example.com "},
			{Nombre: "Sin correo"},
		},
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 queued, got %d", n)
	}
	if b.kind != notify.KindGeneral {
		t.Errorf("expected blank tipo to default to general, got %q", b.kind)
	}
	if b.recipients[0].Email != "ana@example.com" {
		t.Errorf("expected trimmed email, got %q", b.recipients[0].Email)
	}
}

func TestNotificationSendValidation(t *testing.T) {
	svc := services.NewNotificationService(&fakeBroadcaster{})
	one := []dto.Destinatario{{Nombre: "Ana", Email: "ana@example.com"}}

	if _, err := svc.Send(dto.NotificacionRequest{Mensaje: "hola"}); !errors.Is(err, services.ErrValidation) {
		t.Errorf("expected validation error without recipients, got %v", err)
	}
	if _, err := svc.Send(dto.NotificacionRequest{Destinatarios: one}); !errors.Is(err, services.ErrValidation) {
		t.Errorf("expected validation error without message, got %v", err)
	}
	if _, err := svc.Send(dto.NotificacionRequest{Tipo: "spam", Mensaje: "hola", Destinatarios: one}); !errors.Is(err, services.ErrInvalidNotification) {
		t.Errorf("expected ErrInvalidNotification, got %v", err)
	}
}
