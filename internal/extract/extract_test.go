package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// scriptedGenerator returns responses in order and records every prompt.
type scriptedGenerator struct {
	responses []string
	errs      []error
	prompts   []string
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt string) (string, error) {
	i := len(g.prompts)
	g.prompts = append(g.prompts, prompt)
	var err error
	if i < len(g.errs) {
		err = g.errs[i]
	}
	if i < len(g.responses) {
		return g.responses[i], err
	}
	return "", err
}

func repairWith(prefix string) RepairPrompt {
	return func(previous string) string { return prefix + previous }
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		"```json {\"a\":1}```":    `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
		"```JSON\n[1,2]\n```\n\n": `[1,2]`,
		"no fence ```":            "no fence ```",
	}
	for in, want := range cases {
		if got := StripFences(in); got != want {
			t.Errorf("StripFences(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParse_Empty(t *testing.T) {
	if _, err := Parse("```json\n```"); err == nil {
		t.Error("expected error for empty fenced output")
	}
}

func TestParseWithRepair_FirstParses(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"```json\n{\"ok\":true}\n```"}}
	v, err := ParseWithRepair(context.Background(), gen, "prompt", repairWith("fix:"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m, ok := v.(map[string]any); !ok || m["ok"] != true {
		t.Errorf("unexpected value: %#v", v)
	}
	if len(gen.prompts) != 1 {
		t.Errorf("expected 1 generator call, got %d", len(gen.prompts))
	}
}

func TestParseWithRepair_RepairSucceeds(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"{broken", `{"ok":1}`}}
	v, err := ParseWithRepair(context.Background(), gen, "prompt", repairWith("fix:"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v == nil {
		t.Fatal("expected parsed value")
	}
	if len(gen.prompts) != 2 {
		t.Fatalf("expected exactly 2 generator calls, got %d", len(gen.prompts))
	}
	if gen.prompts[1] != "fix:{broken" {
		t.Errorf("repair prompt should embed the malformed text, got %q", gen.prompts[1])
	}
}

func TestParseWithRepair_BothFail(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"nope", "still nope", `{"never":"reached"}`}}
	_, err := ParseWithRepair(context.Background(), gen, "prompt", repairWith("fix:"))
	var merr *MalformedOutputError
	if !errors.As(err, &merr) {
		t.Fatalf("expected MalformedOutputError, got %v", err)
	}
	if !strings.Contains(err.Error(), "after repair") {
		t.Errorf("unexpected message: %s", err)
	}
	if len(gen.prompts) != 2 {
		t.Errorf("expected no retry beyond one repair, got %d calls", len(gen.prompts))
	}
}

func TestParseWithRepair_UpstreamErrorNotRetried(t *testing.T) {
	upstream := errors.New("network down")
	gen := &scriptedGenerator{errs: []error{upstream}}
	_, err := ParseWithRepair(context.Background(), gen, "prompt", repairWith("fix:"))
	if !errors.Is(err, upstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if len(gen.prompts) != 1 {
		t.Errorf("expected 1 call, got %d", len(gen.prompts))
	}
}

func TestParseWithRepair_RepairCallFails(t *testing.T) {
	upstream := errors.New("quota")
	gen := &scriptedGenerator{responses: []string{"bad", ""}, errs: []error{nil, upstream}}
	_, err := ParseWithRepair(context.Background(), gen, "prompt", repairWith("fix:"))
	if !errors.Is(err, upstream) {
		t.Fatalf("expected repair call error, got %v", err)
	}
}

func TestGeneratorFunc(t *testing.T) {
	g := GeneratorFunc(func(_ context.Context, p string) (string, error) { return "[" + p + "]", nil })
	v, err := ParseWithRepair(context.Background(), g, "1", repairWith(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if arr, ok := v.([]any); !ok || len(arr) != 1 {
		t.Errorf("unexpected value %#v", v)
	}
}
