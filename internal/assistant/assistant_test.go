package assistant

import (
	"strings"
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	if got := Normalize("¿Cuándo EXPIRACIÓN Señor?"); got != "¿cuando expiracion senor?" {
		t.Errorf("Normalize = %q", got)
	}
}

func TestIsExpiryQuestion(t *testing.T) {
	yes := []string{"¿Cuándo vence mi licencia?", "fecha de VENCIMIENTO", "expiración de mi licencia", "¿Caduca pronto?"}
	no := []string{"¿Cuál es el horario?", "Quiero agendar una hora", ""}
	for _, q := range yes {
		if !IsExpiryQuestion(q) {
			t.Errorf("expected %q to be an expiry question", q)
		}
	}
	for _, q := range no {
		if IsExpiryQuestion(q) {
			t.Errorf("expected %q not to be an expiry question", q)
		}
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(d); got != "02 de marzo de 2026" {
		t.Errorf("FormatDate = %q", got)
	}
}

func TestExpiryAnswer(t *testing.T) {
	vence := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	future := ExpiryAnswer("Ana", "al_dia", vence, 12)
	if !strings.Contains(future, "vence el 02 de marzo de 2026") || !strings.Contains(future, "en 12 día(s)") {
		t.Errorf("unexpected future answer %q", future)
	}
	if today := ExpiryAnswer("Ana", "al_dia", vence, 0); !strings.Contains(today, "vence hoy") {
		t.Errorf("unexpected today answer %q", today)
	}
	if past := ExpiryAnswer("Ana", "al_dia", vence, -5); !strings.Contains(past, "expiró hace 5 día(s)") {
		t.Errorf("unexpected expired answer %q", past)
	}
}

func TestKnowledgeBase(t *testing.T) {
	k, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if k.SystemPrompt == "" || len(k.FAQs) == 0 || len(k.Canned) == 0 {
		t.Fatal("expected a populated knowledge base")
	}

	if got := k.CannedAnswer("¿Cuál es el HORARIO de atención?"); !strings.Contains(got, "Lunes a viernes") {
		t.Errorf("unexpected horario answer %q", got)
	}
	if got := k.CannedAnswer("quiero RENOVACIÓN"); !strings.Contains(got, "renovar tu licencia") {
		t.Errorf("expected accent-insensitive renovacion match, got %q", got)
	}
	if got := k.CannedAnswer("necesito renovar mi licencia"); !strings.Contains(got, "Clase B") {
		t.Errorf("expected first matching entry to win, got %q", got)
	}
	if got := k.CannedAnswer("¿dónde estacionar?"); got != k.Messages.Generic {
		t.Errorf("expected generic answer, got %q", got)
	}
}

func TestSuggestedQuestions(t *testing.T) {
	k := MustLoad()
	if qs := k.SuggestedQuestions("licencia"); len(qs) != 5 || qs[0] != "¿Cuándo vence mi licencia?" {
		t.Errorf("unexpected licencia suggestions %v", qs)
	}
	general := k.SuggestedQuestions("general")
	if qs := k.SuggestedQuestions("desconocido"); len(qs) != len(general) || qs[0] != general[0] {
		t.Errorf("expected unknown context to map to general, got %v", qs)
	}
}

func TestParseRejectsIncompleteKnowledge(t *testing.T) {
	if _, err := Parse([]byte("canned: []\n")); err == nil {
		t.Error("expected error for knowledge without messages")
	}
}
