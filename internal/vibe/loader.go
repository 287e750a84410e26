// Package vibe loads the free-form product description that a run starts from.
package vibe

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/redact"
)

// maxVibeBytes caps how much input is read.
const maxVibeBytes = 1 << 20

var (
	// ErrEmpty is returned when the input holds no text.
	ErrEmpty = errors.New("vibe is empty")
	// ErrTooLarge is returned when the input exceeds the read limit.
	ErrTooLarge = fmt.Errorf("vibe exceeds %d bytes", maxVibeBytes)
)

// Vibe holds a loaded vibe with derived metadata.
type Vibe struct {
	Path       string
	Hash       string // "sha256:<hex>" of the original bytes, computed before redaction
	Raw        string // original content
	Text       string // trimmed and redacted; this is what a model sees
	Redactions []string
}

// Load reads a vibe file from disk. A path of "-" reads stdin.
func Load(path string) (*Vibe, error) {
	if path == "-" {
		return Read("stdin", os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading vibe file: %w", err)
	}
	defer f.Close()
	return Read(path, f)
}

// Read loads a vibe from r, recording name as its path.
func Read(name string, r io.Reader) (*Vibe, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxVibeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading vibe: %w", err)
	}
	if len(data) > maxVibeBytes {
		return nil, fmt.Errorf("%w: %s", ErrTooLarge, name)
	}
	return FromText(name, string(data))
}

// FromText builds a Vibe from in-memory text. Invalid UTF-8 in Text is
// replaced with U+FFFD; Raw and Hash keep the original bytes.
func FromText(name, raw string) (*Vibe, error) {
	trimmed := strings.ToValidUTF8(strings.TrimSpace(raw), "\uFFFD")
	if trimmed == "" {
		return nil, ErrEmpty
	}
	sum := sha256.Sum256([]byte(raw))
	return &Vibe{
		Path:       name,
		Hash:       fmt.Sprintf("sha256:%x", sum),
		Raw:        raw,
		Text:       redact.Redact(trimmed),
		Redactions: redact.Matches(trimmed),
	}, nil
}
