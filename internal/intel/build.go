package intel

import (
	"fmt"
	"strings"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
)

// HypothesisFromSpec seeds a Hypothesis from the spec's problem frame.
func HypothesisFromSpec(s schema.Spec) schema.Hypothesis {
	pf := s.ProblemFrame
	return schema.Hypothesis{
		Who:     pf.Who,
		When:    pf.When,
		What:    pf.What,
		Why:     pf.Why,
		Success: pf.SuccessCriteria,
	}
}

// BuildLogicMap derives the four axes from the spec, using h for the
// problem and success lines of the text axis.
func BuildLogicMap(s schema.Spec, h schema.Hypothesis) schema.LogicMap {
	var text []string
	if what := strings.TrimSpace(h.What); what != "" {
		text = append(text, "- Core problem: "+what)
	}
	if success := strings.TrimSpace(h.Success); success != "" {
		text = append(text, "- Success criteria: "+success)
	}
	for _, f := range s.Features.Must {
		text = append(text, "- Must feature: "+f)
	}

	var db []string
	for _, f := range s.InputFields {
		db = append(db, fmt.Sprintf("- %s: %s (example: %s)",
			orDefault(f.Name, "field"), orDefault(f.Type, "string"), orDefault(f.Example, "-")))
	}
	if len(db) == 0 {
		db = []string{"- Define the input fields first."}
	}

	var api []string
	for i, f := range s.Features.Must {
		api = append(api, fmt.Sprintf("- POST /api/task-%d: %s", i+1, f))
	}
	if len(api) == 0 {
		api = []string{"- The feature list is empty, so no API mapping was generated."}
	}

	var ui []string
	for i, step := range s.Flow {
		ui = append(ui, fmt.Sprintf("%d. %s", i+1, step))
	}
	if len(ui) == 0 {
		ui = []string{"- The screen flow is empty."}
	}

	return schema.LogicMap{
		Text: strings.Join(text, "\n"),
		DB:   strings.Join(db, "\n"),
		API:  strings.Join(api, "\n"),
		UI:   strings.Join(ui, "\n"),
	}
}

// AppendLine adds line to base on its own line unless base already contains
// it. Blank lines are ignored.
func AppendLine(base, line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return base
	}
	current := strings.TrimSpace(base)
	if current == "" {
		return line
	}
	if strings.Contains(current, line) {
		return base
	}
	return current + "\n" + line
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
