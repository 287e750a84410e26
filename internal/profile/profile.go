// Package profile holds the prompt policies that shape the generation prompt:
// which hard constraints and goals are stated, and whether a format example
// is attached.
package profile

import (
	"fmt"
	"regexp"
	"strings"
)

// Policy mode names.
const (
	Baseline         = "baseline"
	BeginnerZeroShot = "beginner_zero_shot"
	StrictFormat     = "strict_format"
)

// Section ids, in the order they appear in a prompt.
const (
	SectionRole        = "role"
	SectionConstraints = "constraints"
	SectionSchema      = "schema"
	SectionGoal        = "goal"
	SectionRuntime     = "runtime"
	SectionVibe        = "user_vibe"
	SectionExamples    = "examples"
)

var defaultSectionOrder = []string{SectionRole, SectionConstraints, SectionSchema, SectionGoal, SectionRuntime, SectionVibe}

// Profile defines one prompt policy.
type Profile struct {
	Name          string
	AllowExamples bool
	ExampleMode   string // none or minimal
	PositiveFirst bool
	SectionOrder  []string
	Constraints   []string
	Goals         []string
	Examples      []string

	// RewriteCount is how many constraint or goal lines were rephrased
	// positively when the profile was resolved.
	RewriteCount int
}

// Get returns the built-in profile for the given mode name.
func Get(name string) (*Profile, error) {
	var p *Profile
	switch name {
	case Baseline, "":
		p = baseline()
	case BeginnerZeroShot:
		p = beginnerZeroShot()
	case StrictFormat:
		p = strictFormat()
	default:
		return nil, fmt.Errorf("unknown prompt policy %q: valid policies are baseline, beginner_zero_shot, strict_format", name)
	}
	p.applyPositiveRewrite()
	return p, nil
}

// ForPersona picks a policy when no explicit mode was given. Beginners get
// the zero-shot policy; everyone else gets the baseline.
func ForPersona(persona, mode string) (*Profile, error) {
	if mode != "" {
		return Get(mode)
	}
	if strings.EqualFold(strings.TrimSpace(persona), "beginner") {
		return Get(BeginnerZeroShot)
	}
	return Get(Baseline)
}

type rewrite struct {
	pattern     *regexp.Regexp
	replacement string
}

var positiveRewrites = []rewrite{
	{regexp.MustCompile(`(?i)\bdo not simply paraphrase the user vibe\b`), "Translate the user vibe into concrete implementation steps instead of paraphrasing it"},
	{regexp.MustCompile(`(?i)\bdo not write long explanations\b`), "Keep explanations concise and limited to 1~2 sentences"},
	{regexp.MustCompile(`원문을\s*단순\s*재진술하지\s*마라`), "원문을 구현 가능한 작업 단위로 구체화하라"},
	{regexp.MustCompile(`설명문을\s*길게\s*쓰지\s*마라`), "설명문은 핵심만 1~2문장으로 간결하게 작성하라"},
}

// RewritePositive rephrases known negative instructions as positive ones.
// The bool reports whether anything changed.
func RewritePositive(line string) (string, bool) {
	out := strings.TrimSpace(line)
	changed := false
	for _, r := range positiveRewrites {
		if r.pattern.MatchString(out) {
			out = r.pattern.ReplaceAllString(out, r.replacement)
			changed = true
		}
	}
	return out, changed
}

func (p *Profile) applyPositiveRewrite() {
	if !p.PositiveFirst {
		return
	}
	for _, lines := range [][]string{p.Constraints, p.Goals} {
		for i, l := range lines {
			if next, ok := RewritePositive(l); ok {
				lines[i] = next
				p.RewriteCount++
			}
		}
	}
}

// Section is one labeled block of a generation prompt.
type Section struct {
	ID      string
	Label   string
	Content string
}

// SectionInput is what a prompt is assembled from.
type SectionInput struct {
	SystemPrompt string
	SchemaHint   string
	Vibe         string
	ShowThinking bool
}

func bullets(lines []string, fallback string) string {
	if len(lines) == 0 {
		return "- " + fallback
	}
	var sb strings.Builder
	for i, l := range lines {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("- " + l)
	}
	return sb.String()
}

// Sections returns the prompt blocks for this profile in SectionOrder.
func (p *Profile) Sections(in SectionInput) []Section {
	runtime := "OFF"
	if in.ShowThinking {
		runtime = "ON"
	}
	byID := map[string]Section{
		SectionRole: {SectionRole, "SYSTEM", strings.TrimSpace(in.SystemPrompt)},
		SectionConstraints: {SectionConstraints, "Hard constraints",
			bullets(p.Constraints, "Return JSON only, preserve the fixed schema, and keep the output concrete.")},
		SectionSchema: {SectionSchema, "Output schema shape", strings.TrimSpace(in.SchemaHint)},
		SectionGoal: {SectionGoal, "Goal and success conditions",
			bullets(p.Goals, "Convert the user vibe into a practical, implementation-ready standard output schema.")},
		SectionRuntime: {SectionRuntime, "Runtime option", fmt.Sprintf("- showThinking=%s.", runtime)},
		SectionVibe:    {SectionVibe, "User vibe", strings.TrimSpace(in.Vibe)},
		SectionExamples: {SectionExamples, "Optional examples",
			bullets(p.Examples, "Keep examples minimal and use them only as a formatting hint.")},
	}
	out := make([]Section, 0, len(p.SectionOrder))
	for _, id := range p.SectionOrder {
		if id == SectionExamples && !p.AllowExamples {
			continue
		}
		if s, ok := byID[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

// FormatForPrompt joins sections as "Label:\ncontent" blocks.
func FormatForPrompt(sections []Section) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, fmt.Sprintf("%s:\n%s", s.Label, s.Content))
	}
	return strings.Join(parts, "\n\n")
}
