package normalize

import (
	"strings"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
)

var stackFrameDefaults = []schema.StackFrame{
	{ID: "option_a", Label: "Option A", Strategy: "Fast validation frame"},
	{ID: "option_b", Label: "Option B", Strategy: "Balanced growth frame"},
	{ID: "option_c", Label: "Option C", Strategy: "Scale-out operations frame"},
}

func normalizeConfidence(v any) string {
	switch strings.ToLower(Text(v, "")) {
	case "high", "높음":
		return "high"
	case "medium", "중간":
		return "medium"
	}
	return "low"
}

// NormalizeStackGuide maps a model stack recommendation into exactly three
// frames (option_a, option_b, option_c). Each frame keeps at most three
// stacks with distinct, case-insensitive names.
func NormalizeStackGuide(raw any, provider, fallbackModel string) schema.StackGuide {
	src := asObject(raw)
	framesSrc, _ := src["frames"].([]any)

	frames := make([]schema.StackFrame, 0, len(stackFrameDefaults))
	for _, base := range stackFrameDefaults {
		var frameSrc map[string]any
		for _, item := range framesSrc {
			obj := asObject(item)
			if strings.ToLower(Text(obj["id"], "")) == base.ID {
				frameSrc = obj
				break
			}
		}
		if frameSrc == nil {
			frameSrc = map[string]any{}
		}

		stacks := []schema.Stack{}
		seen := map[string]bool{}
		stacksSrc, _ := frameSrc["stacks"].([]any)
		for _, item := range stacksSrc {
			obj := asObject(item)
			st := schema.Stack{
				Name:       Text(obj["name"], ""),
				Why:        Text(obj["why"], ""),
				Fit:        Text(obj["fit"], ""),
				Risk:       Text(obj["risk"], ""),
				Confidence: normalizeConfidence(obj["confidence"]),
			}
			key := strings.ToLower(st.Name)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			stacks = append(stacks, st)
			if len(stacks) == schema.MaxStacksFrame {
				break
			}
		}

		label := Text(frameSrc["label"], "")
		if label == "" {
			label = base.Label
		}
		strategy := Text(frameSrc["strategy"], "")
		if strategy == "" {
			strategy = base.Strategy
		}
		frames = append(frames, schema.StackFrame{ID: base.ID, Label: label, Strategy: strategy, Stacks: stacks})
	}

	model := Text(src["model"], "")
	if model == "" {
		model = fallbackModel
	}
	return schema.StackGuide{Provider: provider, Model: model, Frames: frames}
}
