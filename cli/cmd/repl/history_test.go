package repl

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load of missing file failed: %v", err)
	}

	for _, e := range []HistoryEntry{
		{"user/name", modeEval},
		{"help", modeCtrl},
		{"user/name", modeEval}, // moves to end
		{"help", modeCtrl},
		{"help", modeCtrl}, // same as last
		{"  ", modeEval},   // blank
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add(%q) failed: %v", e.Line, err)
		}
	}

	want := []HistoryEntry{
		{"user/name", modeEval},
		{"help", modeCtrl},
	}

	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := string(data); got != "E:user/name\nC:help\n" {
		t.Errorf("unexpected history file %q", got)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := reloaded.Entries(); !slices.Equal(got, want) {
		t.Errorf("expected reloaded %v, got %v", want, got)
	}
}

func TestHistoryUntagged(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	if err := os.WriteFile(path, []byte("a.b\nC:quit\n\nE:{{x}}\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := []HistoryEntry{
		{"a.b", modeEval},
		{"quit", modeCtrl},
		{"{{x}}", modeEval},
	}

	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if _, err := h.Entry(3); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}

	if e, err := h.Entry(1); err != nil || e.Line != "quit" {
		t.Errorf("expected quit, got %v, %v", e, err)
	}
}

func TestHistoryInMemory(t *testing.T) {
	h := NewHistory("")

	if err := h.Add("x", modeEval); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if h.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", h.Len())
	}
}
