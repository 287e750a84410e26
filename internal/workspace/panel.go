// Package workspace holds the editable state around one generated spec and
// routes every state change through the action history.
package workspace

import (
	"maps"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/integrity"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/intel"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
)

// Panel is the full mutable state. It is what the history snapshots.
type Panel struct {
	Vibe            string             `json:"vibe" yaml:"vibe"`
	Spec            schema.Spec        `json:"spec" yaml:"spec"`
	Hypothesis      schema.Hypothesis  `json:"hypothesis" yaml:"hypothesis"`
	Confirmed       bool               `json:"confirmed" yaml:"confirmed"`
	LogicMap        schema.LogicMap    `json:"logic_map" yaml:"logic_map"`
	ChangedAxis     schema.Axis        `json:"changed_axis,omitempty" yaml:"changed_axis,omitempty"`
	PermissionGuard bool               `json:"permission_guard" yaml:"permission_guard"`
	Resolved        map[string]string  `json:"resolved" yaml:"resolved"` // warning id -> detail when resolved
	Focus           *schema.FocusGuide `json:"focus,omitempty" yaml:"focus,omitempty"`
	ActiveLayer     string             `json:"active_layer" yaml:"active_layer"`
}

// NewPanel seeds a panel from a freshly generated spec.
func NewPanel(vibe string, spec schema.Spec) Panel {
	h := intel.HypothesisFromSpec(spec)
	return Panel{
		Vibe:        vibe,
		Spec:        spec,
		Hypothesis:  h,
		LogicMap:    intel.BuildLogicMap(spec, h),
		Resolved:    map[string]string{},
		ActiveLayer: "L1",
	}
}

// Clone returns a deep copy of p. The history snapshots panels with it so
// that text which is not valid UTF-8 survives a restore unchanged.
func (p Panel) Clone() Panel {
	out := p
	out.Spec = p.Spec.Clone()
	out.Resolved = maps.Clone(p.Resolved)
	out.Focus = p.Focus.Clone()
	return out
}

// Evaluation is everything derived from a Panel. It is never stored.
type Evaluation struct {
	Intent   intel.Intent          `json:"intent" yaml:"intent"`
	Logic    intel.Logic           `json:"logic" yaml:"logic"`
	Signals  schema.Signals        `json:"signals" yaml:"signals"`
	Warnings []schema.Warning      `json:"warnings" yaml:"warnings"`
	Active   []schema.Warning      `json:"active" yaml:"active"`
	Gate     schema.GateStatus     `json:"gate" yaml:"gate"`
	Summary  schema.WarningSummary `json:"summary" yaml:"summary"`
}

// Evaluate derives signals, warnings and the gate from p.
func Evaluate(p Panel) Evaluation {
	in := integrity.Input{
		Spec:            p.Spec,
		Hypothesis:      p.Hypothesis,
		LogicMap:        p.LogicMap,
		ChangedAxis:     p.ChangedAxis,
		PermissionGuard: p.PermissionGuard,
		Confirmed:       p.Confirmed,
		Intent:          intel.AnalyzeIntent(p.Vibe, p.Hypothesis),
		Logic:           intel.AnalyzeLogic(p.LogicMap, p.ChangedAxis),
	}
	sig := integrity.Evaluate(in)
	all := integrity.BuildWarnings(in, sig)
	active := make([]schema.Warning, 0, len(all))
	for _, w := range all {
		if detail, ok := p.Resolved[w.ID]; ok && detail == w.Detail {
			continue
		}
		active = append(active, w)
	}
	return Evaluation{
		Intent:   in.Intent,
		Logic:    in.Logic,
		Signals:  sig,
		Warnings: all,
		Active:   active,
		Gate:     integrity.Gate(active),
		Summary:  integrity.Summarize(active),
	}
}

// pruneResolved drops resolutions whose warning is gone or whose detail
// changed, so a recurring condition shows its warning again.
func pruneResolved(p *Panel) {
	if len(p.Resolved) == 0 {
		return
	}
	current := map[string]string{}
	for _, w := range Evaluate(*p).Warnings {
		current[w.ID] = w.Detail
	}
	for id, detail := range p.Resolved {
		if d, ok := current[id]; !ok || d != detail {
			delete(p.Resolved, id)
		}
	}
}
