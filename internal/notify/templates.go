package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"mime"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Kind is a mass notification category.
type Kind string

const (
	KindDocumentosFaltantes Kind = "documentos_faltantes"
	KindHoraConfirmada      Kind = "hora_confirmada"
	KindRecordatorio        Kind = "recordatorio"
	KindGeneral             Kind = "general"
)

var kindTitles = map[Kind]string{
	KindDocumentosFaltantes: "Documentos Faltantes",
	KindHoraConfirmada:      "Hora Confirmada",
	KindRecordatorio:        "Recordatorio de Cita",
	KindGeneral:             "Notificación Importante",
}

// ValidKind reports whether k is a known broadcast kind.
func ValidKind(k Kind) bool {
	_, ok := kindTitles[k]
	return ok
}

const subjectSuffix = " - Municipalidad de Linares"

// Booking carries the fields shown in booking e-mails.
type Booking struct {
	Nombre  string
	Email   string
	Tramite string
	Fecha   string
	Hora    string
	Motivo  string
}

func BookingCreated(b Booking) (Message, error) {
	return render(b.Email, "Confirmación de reserva", "reserva_creada", b)
}

func BookingCancelled(b Booking) (Message, error) {
	return render(b.Email, "Reserva anulada", "reserva_anulada", b)
}

func BookingApproved(b Booking) (Message, error) {
	return render(b.Email, "Reserva confirmada", "reserva_aprobada", b)
}

func BookingRejected(b Booking) (Message, error) {
	return render(b.Email, "Reserva rechazada", "reserva_rechazada", b)
}

func BroadcastMessage(kind Kind, body string, r Recipient) (Message, error) {
	title, ok := kindTitles[kind]
	if !ok {
		title = kindTitles[KindGeneral]
	}
	return render(r.Email, title, "masiva", struct {
		Nombre  string
		Mensaje string
	}{r.Nombre, body})
}

func render(to, title, name string, data interface{}) (Message, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, name, data); err != nil {
		return Message{}, fmt.Errorf("render %s: %w", name, err)
	}
	var out bytes.Buffer
	if err := templates.ExecuteTemplate(&out, "layout", struct {
		Title string
		Body  template.HTML
	}{title, template.HTML(body.String())}); err != nil {
		return Message{}, fmt.Errorf("render layout: %w", err)
	}
	return Message{To: to, Subject: title + subjectSuffix, HTML: out.String()}, nil
}

func encodeSubject(s string) string {
	return mime.QEncoding.Encode("utf-8", s)
}
