// Package notify delivers citizen e-mails. Sends never block the request
// that triggers them; failures are logged and dropped.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type Message struct {
	To      string
	Subject string
	HTML    string
}

type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPNotifier sends HTML mail through a relay with PLAIN auth.
type SMTPNotifier struct {
	addr    string
	auth    smtp.Auth
	from    string
	replyTo string
}

func NewSMTPNotifier(host, port, user, password, from, replyTo string) *SMTPNotifier {
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, password, host)
	}
	return &SMTPNotifier{
		addr:    host + ":" + port,
		auth:    auth,
		from:    from,
		replyTo: replyTo,
	}
}

func (n *SMTPNotifier) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return smtp.SendMail(n.addr, n.auth, n.from, []string{msg.To}, n.build(msg))
}

func (n *SMTPNotifier) build(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	if n.replyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", n.replyTo)
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", encodeSubject(msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	fmt.Fprintf(&b, "Date: %s\r\n\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString(msg.HTML)
	return []byte(b.String())
}

// LogNotifier is used when no SMTP relay is configured.
type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, msg Message) error {
	slog.Info("mail not sent, smtp disabled", "to", msg.To, "subject", msg.Subject)
	return nil
}

// Dispatcher runs sends in the background.
type Dispatcher struct {
	notifier Notifier
	limiter  *rate.Limiter
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewDispatcher paces broadcast sends to one per interval.
func NewDispatcher(n Notifier, interval time.Duration) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		notifier: n,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Async sends msg in a goroutine. Errors are only logged.
func (d *Dispatcher) Async(msg Message) {
	if msg.To == "" {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.notifier.Send(d.ctx, msg); err != nil {
			slog.Warn("failed to send email", "to", msg.To, "subject", msg.Subject, "error", err)
		}
	}()
}

type Recipient struct {
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
}

// Broadcast queues one mail per recipient with an address and returns how
// many were queued. Delivery continues after the call returns, paced by the
// dispatcher's limiter.
func (d *Dispatcher) Broadcast(kind Kind, body string, recipients []Recipient) (int, error) {
	msgs := make([]Message, 0, len(recipients))
	for _, r := range recipients {
		if strings.TrimSpace(r.Email) == "" {
			slog.Warn("recipient without email skipped", "nombre", r.Nombre)
			continue
		}
		msg, err := BroadcastMessage(kind, body, r)
		if err != nil {
			return 0, err
		}
		msgs = append(msgs, msg)
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for i, msg := range msgs {
			if err := d.limiter.Wait(d.ctx); err != nil {
				slog.Warn("broadcast interrupted", "sent", i, "total", len(msgs), "error", err)
				return
			}
			if err := d.notifier.Send(d.ctx, msg); err != nil {
				slog.Warn("failed to send broadcast email", "to", msg.To, "error", err)
			}
		}
	}()
	return len(msgs), nil
}

// Wait blocks until every queued send has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close cancels pending sends and waits for the goroutines to exit.
func (d *Dispatcher) Close() {
	d.cancel()
	d.wg.Wait()
}
