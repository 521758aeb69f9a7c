package services

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/notify"
)

type Broadcaster interface {
	Broadcast(kind notify.Kind, body string, recipients []notify.Recipient) (int, error)
}

// NotificationService sends admin mass notifications. Delivery is paced in
// the background; Send returns once every message is queued.
type NotificationService struct {
	broadcaster Broadcaster
}

func NewNotificationService(b Broadcaster) *NotificationService {
	return &NotificationService{broadcaster: b}
}

func (s *NotificationService) Send(req dto.NotificacionRequest) (int, error) {
	mensaje := strings.TrimSpace(req.Mensaje)
	if mensaje == "" || len(req.Destinatarios) == 0 {
		return 0, ErrNoRecipients
	}
	kind := notify.Kind(strings.TrimSpace(req.Tipo))
	if kind == "" {
		kind = notify.KindGeneral
	}
	if !notify.ValidKind(kind) {
		return 0, ErrInvalidNotification
	}

	recipients := make([]notify.Recipient, 0, len(req.Destinatarios))
	for _, d := range req.Destinatarios {
		recipients = append(recipients, notify.Recipient{Nombre: d.Nombre, Email: strings.TrimSpace(d.Email)})
	}
	return s.broadcaster.Broadcast(kind, mensaje, recipients)
}
