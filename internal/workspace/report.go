package workspace

import (
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/focus"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
)

// Report assembles the output document for the current panel. The focus
// guide points at the highest-scoring active warning.
func (w *Workspace) Report(tool, version string, in schema.Input, meta schema.Meta) schema.Report {
	p := w.Panel()
	ev := Evaluate(p)
	r := schema.Report{
		Tool:       tool,
		Version:    version,
		Input:      in,
		Spec:       p.Spec,
		Hypothesis: p.Hypothesis,
		LogicMap:   p.LogicMap,
		Signals:    ev.Signals,
		Warnings:   ev.Active,
		Gate:       ev.Gate,
		Summary:    ev.Summary,
		Meta:       meta,
	}
	if len(ev.Active) > 0 {
		g := focus.Guide(ev.Active[0], ev.Intent.LowFields)
		r.Focus = &g
	}
	return r
}
