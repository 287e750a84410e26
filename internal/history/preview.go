package history

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"gopkg.in/yaml.v3"
)

// Preview renders what rolling back to entry id would change, as patch
// text from the current state to the entry's snapshot. Both states are
// rendered as YAML and normalized before diffing. An empty string means the
// rollback would change nothing.
func (e *Engine[S]) Preview(id string) (string, error) {
	target, ok := e.Get(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !target.CanRollback() {
		return "", fmt.Errorf("%w: %s", ErrNoSnapshot, id)
	}
	current, ok := e.opts.Capture()
	if !ok {
		return "", fmt.Errorf("current state unavailable for preview of %s", id)
	}
	before, err := render(current)
	if err != nil {
		return "", fmt.Errorf("rendering current state: %w", err)
	}
	after, err := render(*target.Snapshot)
	if err != nil {
		return "", fmt.Errorf("rendering snapshot %s: %w", id, err)
	}
	return Diff(target.ID, before, after), nil
}

// Diff returns a labelled patch turning before into after, or "" when they
// match after normalization.
func Diff(label, before, after string) string {
	before, after = normalize(before), normalize(after)
	if before == after {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	patchText := dmp.PatchToText(dmp.PatchMake(before, diffs))
	if patchText == "" {
		return ""
	}
	var out strings.Builder
	fmt.Fprintf(&out, "# rollback to %s\n", label)
	out.WriteString(patchText)
	out.WriteString("\n")
	return out.String()
}

func render(v any) (string, error) {
	b, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// normalize trims trailing whitespace from each line and converts CRLF to LF.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
