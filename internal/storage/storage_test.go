package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCleanName(t *testing.T) {
	cases := map[string]string{
		"doc.pdf":          "doc.pdf",
		"../../etc/passwd": "passwd",
		"a/b/../c.png":     "c.png",
		"..":               "",
		"/":                "",
		"":                 "",
	}
	for in, want := range cases {
		got, ok := CleanName(in)
		if want == "" {
			if ok {
				t.Errorf("CleanName(%q) = %q, expected rejection", in, got)
			}
			continue
		}
		if !ok || got != want {
			t.Errorf("CleanName(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
}

func TestDiskRoundTrip(t *testing.T) {
	ctx := context.Background()
	d, err := NewDisk(filepath.Join(t.TempDir(), "uploads"))
	if err != nil {
		t.Fatal(err)
	}

	payload := []byte("%PDF-1.4 contenido")
	n, err := d.Save(ctx, "abc.pdf", bytes.NewReader(payload))
	if err != nil || n != int64(len(payload)) {
		t.Fatalf("Save: %d, %v", n, err)
	}

	if _, err := d.Save(ctx, "abc.pdf", strings.NewReader("x")); err == nil {
		t.Error("expected existing blob not to be overwritten")
	}

	rc, err := d.Open(ctx, "../abc.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, _ := io.ReadAll(rc)
	rc.Close()
	if !bytes.Equal(got, payload) {
		t.Errorf("round trip mismatch: %q", got)
	}

	if err := d.Remove(ctx, "abc.pdf"); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Open(ctx, "abc.pdf"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after Remove, got %v", err)
	}
}

func TestDiskOpenOutsideDirIsNotFound(t *testing.T) {
	root := t.TempDir()
	secret := filepath.Join(root, "secret.txt")
	os.WriteFile(secret, []byte("x"), 0o644)

	d, _ := NewDisk(filepath.Join(root, "uploads"))
	if _, err := d.Open(context.Background(), "../secret.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected traversal to be contained, got %v", err)
	}
}
