package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func completionServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			t.Error("missing Authorization header")
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages %+v", req.Messages)
		}
		w.WriteHeader(status)
		if status == http.StatusOK {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"choices": []map[string]interface{}{
					{"message": map[string]string{"role": "assistant", "content": content}},
				},
			})
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCompleteFallsThroughProviders(t *testing.T) {
	broken := completionServer(t, http.StatusInternalServerError, "")
	working := completionServer(t, http.StatusOK, "  Atendemos de 8 a 17.  ")

	c := New(time.Second,
		Provider{Name: "openai", URL: broken.URL, APIKey: "k1", Model: "gpt"},
		Provider{Name: "skipped", URL: "http://127.0.0.1:1", Model: "none"},
		Provider{Name: "deepseek", URL: working.URL, APIKey: "k2", Model: "deepseek-chat"},
	)

	out, err := c.Complete(context.Background(), "system", "¿horario?")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out.Text != "Atendemos de 8 a 17." || out.Provider != "deepseek" || out.Model != "deepseek-chat" {
		t.Errorf("unexpected completion %+v", out)
	}
}

func TestCompleteAllFail(t *testing.T) {
	broken := completionServer(t, http.StatusBadGateway, "")
	c := New(time.Second, Provider{Name: "openai", URL: broken.URL, APIKey: "k", Model: "gpt"})

	if _, err := c.Complete(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected error when every provider fails")
	}
}

func TestCompleteWithoutProviders(t *testing.T) {
	c := New(time.Second, Provider{Name: "openai", URL: "http://unused"})
	if c.Configured() {
		t.Fatal("expected provider without key to be ignored")
	}
	if _, err := c.Complete(context.Background(), "s", "u"); !errors.Is(err, ErrNoProvider) {
		t.Errorf("expected ErrNoProvider, got %v", err)
	}
}
