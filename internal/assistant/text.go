package assistant

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases s and strips diacritics so "Expiración" matches
// "expiracion".
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

var expiryIntent = regexp.MustCompile(`vence|vencimiento|expiracion|expira|caduc`)

// IsExpiryQuestion reports whether the question asks when a licence expires.
func IsExpiryQuestion(question string) bool {
	return expiryIntent.MatchString(Normalize(question))
}

var meses = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatDate renders t in the es-CL long form, e.g. "02 de marzo de 2026".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%02d de %s de %d", t.Day(), meses[t.Month()-1], t.Year())
}

func estadoLabel(estado string) string {
	if estado == "con_deuda" {
		return "con deuda"
	}
	if estado == "suspendida" {
		return "suspendida"
	}
	return "al día"
}

// ExpiryAnswer words the answer for a licence expiring dias days from now.
func ExpiryAnswer(nombre, estado string, vence time.Time, dias int) string {
	fecha := FormatDate(vence)
	switch {
	case dias > 0:
		return fmt.Sprintf("Estimado(a) %s, su licencia de conducir (%s) vence el %s, es decir, en %d día(s). Le recomendamos renovarla en caso de necesitarlo.",
			nombre, estadoLabel(estado), fecha, dias)
	case dias == 0:
		return fmt.Sprintf("Su licencia vence hoy (%s). Le recomendamos renovarla a la brevedad.", fecha)
	default:
		return fmt.Sprintf("Su licencia expiró hace %d día(s). Por favor, comuníquese con la municipalidad para renovarla.", -dias)
	}
}

// Reminder is the proactive notice sent ahead of an expiry.
func Reminder(nombre string, vence time.Time, dias int) string {
	return fmt.Sprintf("Estimado(a) %s, le informamos que su licencia de conducir vence el %s, en %d día(s). Le recomendamos renovarla a la brevedad en nuestras oficinas o a través de la plataforma en línea.",
		nombre, FormatDate(vence), dias)
}
