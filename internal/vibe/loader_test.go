package vibe

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func writeTempVibe(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vibe.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_TrimsText(t *testing.T) {
	path := writeTempVibe(t, "\n  A booking app for a small yoga studio.  \n")
	v, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v.Text != "A booking app for a small yoga studio." {
		t.Errorf("unexpected text %q", v.Text)
	}
	if v.Path != path {
		t.Errorf("Path = %q, want %q", v.Path, path)
	}
}

func TestLoad_HashStable(t *testing.T) {
	path := writeTempVibe(t, "hello world\n")
	v1, err := Load(path)
	if err != nil {
		t.Fatalf("Load (first): %v", err)
	}
	v2, err := Load(path)
	if err != nil {
		t.Fatalf("Load (second): %v", err)
	}
	if v1.Hash != v2.Hash {
		t.Errorf("hash not stable: %q vs %q", v1.Hash, v2.Hash)
	}
	if !strings.HasPrefix(v1.Hash, "sha256:") {
		t.Errorf("hash missing sha256 prefix: %q", v1.Hash)
	}
}

func TestFromText_RedactsBeforeModel(t *testing.T) {
	raw := "Dashboard for ops. Our key is sk-abcdefghijklmnopqrstuvwxyz123456"
	v, err := FromText("inline", raw)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(v.Text, "sk-abcdefghijkl") {
		t.Errorf("secret reached Text: %q", v.Text)
	}
	if v.Raw != raw {
		t.Error("Raw must keep the original content")
	}
	if len(v.Redactions) != 1 || v.Redactions[0] != "provider-secret-key" {
		t.Errorf("unexpected redactions %v", v.Redactions)
	}
}

func TestRead_Empty(t *testing.T) {
	_, err := Read("stdin", strings.NewReader(" \n\t "))
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestRead_TooLarge(t *testing.T) {
	input := strings.Repeat("a", maxVibeBytes) + "tail"
	_, err := Read("stdin", strings.NewReader(input))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestRead_AtLimit(t *testing.T) {
	input := strings.Repeat("a", maxVibeBytes)
	v, err := Read("stdin", strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(v.Raw) != maxVibeBytes {
		t.Errorf("len(Raw) = %d, want %d", len(v.Raw), maxVibeBytes)
	}
}

func TestFromText_InvalidUTF8(t *testing.T) {
	raw := "caf\xe9 inventory \xff"
	v, err := FromText("inline", raw)
	if err != nil {
		t.Fatal(err)
	}
	if !utf8.ValidString(v.Text) {
		t.Errorf("Text is not valid UTF-8: %q", v.Text)
	}
	if v.Text != "caf\uFFFD inventory \uFFFD" {
		t.Errorf("unexpected text %q", v.Text)
	}
	if v.Raw != raw {
		t.Errorf("Raw changed: %q", v.Raw)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/vibe.txt"); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}
