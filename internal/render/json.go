package render

import (
	"encoding/json"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
)

type jsonRenderer struct{}

func (r *jsonRenderer) Render(report *schema.Report) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// SpecJSON renders only the canonical spec, the shape a model is asked to
// return.
func SpecJSON(s schema.Spec) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
