package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu   sync.Mutex
	msgs []Message
	err  error
}

func (r *recorder) Send(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return r.err
}

func (r *recorder) sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.msgs...)
}

func TestBroadcastSkipsRecipientsWithoutEmail(t *testing.T) {
	rec := &recorder{}
	d := NewDispatcher(rec, time.Millisecond)
	defer d.Close()

	n, err := d.Broadcast(KindRecordatorio, "Su cita es mañana <b>10:00</b>", []Recipient{
		{Nombre: "Ana", Email: "ana@example.cl"},
		{Nombre: "Sin correo"},
		{Nombre: "Luis", Email: "luis@example.cl"},
	})
	if err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 queued, got %d", n)
	}

	d.Wait()
	msgs := rec.sent()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 sends, got %d", len(msgs))
	}
	if msgs[0].To != "ana@example.cl" || msgs[1].To != "luis@example.cl" {
		t.Errorf("unexpected recipients %q, %q", msgs[0].To, msgs[1].To)
	}
	if !strings.HasPrefix(msgs[0].Subject, "Recordatorio de Cita") {
		t.Errorf("unexpected subject %q", msgs[0].Subject)
	}
	if strings.Contains(msgs[0].HTML, "<b>10:00</b>") {
		t.Error("expected message body to be HTML-escaped")
	}
	if !strings.Contains(msgs[0].HTML, "Hola <b>Ana</b>") {
		t.Error("expected greeting with recipient name")
	}
}

func TestBroadcastIsPaced(t *testing.T) {
	rec := &recorder{}
	d := NewDispatcher(rec, 20*time.Millisecond)
	defer d.Close()

	start := time.Now()
	d.Broadcast(KindGeneral, "hola", []Recipient{
		{Email: "a@example.cl"}, {Email: "b@example.cl"}, {Email: "c@example.cl"},
	})
	d.Wait()

	if elapsed := time.Since(start); elapsed < 35*time.Millisecond {
		t.Errorf("expected sends to be spaced out, took %s", elapsed)
	}
}

func TestAsyncLogsFailures(t *testing.T) {
	rec := &recorder{err: errors.New("relay down")}
	d := NewDispatcher(rec, time.Millisecond)
	defer d.Close()

	msg, err := BookingCreated(Booking{Nombre: "Ana", Email: "ana@example.cl", Tramite: "Renovación", Fecha: "2026-03-02", Hora: "10:00"})
	if err != nil {
		t.Fatalf("BookingCreated: %v", err)
	}
	d.Async(msg)
	d.Async(Message{Subject: "no recipient"})
	d.Wait()

	if got := len(rec.sent()); got != 1 {
		t.Errorf("expected one attempt, got %d", got)
	}
}

func TestBookingTemplates(t *testing.T) {
	b := Booking{Nombre: "Ana", Email: "ana@example.cl", Tramite: "Licencia Clase B", Fecha: "2026-03-02", Hora: "09:30", Motivo: "Documentos ilegibles"}

	msg, err := BookingRejected(b)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Licencia Clase B", "2026-03-02", "09:30", "Documentos ilegibles", "rechazada"} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("rejection mail missing %q", want)
		}
	}
	if msg.Subject != "Reserva rechazada - Municipalidad de Linares" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}

	for _, fn := range []func(Booking) (Message, error){BookingCreated, BookingCancelled, BookingApproved} {
		if _, err := fn(b); err != nil {
			t.Errorf("render: %v", err)
		}
	}
}

func TestSMTPMessageHeaders(t *testing.T) {
	n := NewSMTPNotifier("smtp.example.cl", "587", "", "", "no-reply@linares.cl", "soporte@linares.cl")
	raw := string(n.build(Message{To: "ana@example.cl", Subject: "Confirmación", HTML: "<p>hola</p>"}))

	for _, want := range []string{
		"From: no-reply@linares.cl\r\n",
		"To: ana@example.cl\r\n",
		"Reply-To: soporte@linares.cl\r\n",
		"Content-Type: text/html; charset=UTF-8\r\n",
		"<p>hola</p>",
	} {
		if !strings.Contains(raw, want) {
			t.Errorf("message missing %q", want)
		}
	}
	if strings.Contains(raw, "Subject: Confirmación") {
		t.Error("expected non-ASCII subject to be encoded")
	}
}
