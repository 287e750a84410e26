package integrity

import (
	"fmt"
	"strings"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
)

// Warning ids produced from integrity signals.
const (
	WarnIntentUnconfirmed   = "intent-unconfirmed"
	WarnIntentLowConfidence = "intent-low-confidence"
	WarnDataFlowAlignment   = "data-flow-alignment"
	WarnPermissionDelete    = "permission-delete"
	WarnIntentMismatch      = "intent-mismatch"
	schemaWarningPrefix     = "schema-"
)

// CTA action ids.
const (
	ActionGoL1                     = "go-l1"
	ActionGoL2                     = "go-l2"
	ActionMarkResolved             = "mark-resolved"
	ActionConfirmIntent            = "confirm-intent"
	ActionApplySuggestedHypothesis = "apply-suggested-hypothesis"
	ActionSyncApply                = "sync-apply"
	ActionApplyPermissionGuard     = "apply-permission-guard"
	ActionAlignIntent              = "align-intent"
)

// IsSchemaWarning reports whether id names a completeness-derived warning.
func IsSchemaWarning(id string) bool {
	return strings.HasPrefix(id, schemaWarningPrefix)
}

// BuildWarnings converts the spec's completeness warnings and the signals
// into scored warnings, sorted by priority.
func BuildWarnings(in Input, sig schema.Signals) []schema.Warning {
	items := []schema.Warning{}

	for i, text := range in.Spec.Completeness.Warnings {
		sev, dom, gate := ClassifyRisk(text)
		items = append(items, NewWarning(schema.Warning{
			ID:     fmt.Sprintf("%s%d", schemaWarningPrefix, i),
			Title:  fmt.Sprintf("Schema warning %d", i+1),
			Detail: text,
			Actions: []schema.Action{
				{ID: ActionGoL1, Label: "Check in L1"},
				{ID: ActionMarkResolved, Label: "Mark resolved"},
			},
			AutoAction: ActionMarkResolved,
			Severity:   sev,
			Domain:     dom,
			GateImpact: gate,
		}))
	}

	if !in.Confirmed {
		items = append(items, NewWarning(schema.Warning{
			ID:     WarnIntentUnconfirmed,
			Title:  "L1 hypothesis not confirmed",
			Detail: "The hypothesis has not been confirmed yet. Confirm it first.",
			Actions: []schema.Action{
				{ID: ActionConfirmIntent, Label: "Confirm hypothesis"},
				{ID: ActionGoL1, Label: "Open L1"},
			},
			AutoAction: ActionConfirmIntent,
			Severity:   schema.SeverityMedium,
			Domain:     schema.DomainCompleteness,
			GateImpact: schema.GateSoft,
		}))
	}

	if sig.LowIntentConfidence {
		fields := make([]string, 0, len(in.Intent.LowFields))
		for _, f := range in.Intent.LowFields {
			fields = append(fields, string(f))
		}
		low := strings.Join(fields, ", ")
		if low == "" {
			low = "-"
		}
		sev, gate := schema.SeverityMedium, schema.GateSoft
		if in.Intent.Overall < 50 {
			sev, gate = schema.SeverityHigh, schema.GateHard
		}
		items = append(items, NewWarning(schema.Warning{
			ID:     WarnIntentLowConfidence,
			Title:  "Low intent confidence",
			Detail: fmt.Sprintf("Intent confidence (%d) is low. Strengthen these fields first: %s", in.Intent.Overall, low),
			Actions: []schema.Action{
				{ID: ActionApplySuggestedHypothesis, Label: "Apply suggested hypothesis"},
				{ID: ActionGoL1, Label: "Open L1"},
			},
			AutoAction: ActionApplySuggestedHypothesis,
			Severity:   sev,
			Domain:     schema.DomainCoherence,
			GateImpact: gate,
		}))
	}

	if sig.DataFlow != schema.SignalPass {
		gate := schema.GateSoft
		if in.ChangedAxis != "" || in.Logic.Alignment < 45 {
			gate = schema.GateHard
		}
		sev := schema.SeverityMedium
		if in.Logic.Overall < 55 {
			sev = schema.SeverityHigh
		}
		auto := ""
		if in.ChangedAxis != "" {
			auto = ActionSyncApply
		}
		items = append(items, NewWarning(schema.Warning{
			ID:     WarnDataFlowAlignment,
			Title:  "Data-Flow Alignment",
			Detail: fmt.Sprintf("L2 overall %d, alignment %d. The axes need a sync check.", in.Logic.Overall, in.Logic.Alignment),
			Actions: []schema.Action{
				{ID: ActionSyncApply, Label: "Apply sync"},
				{ID: ActionGoL2, Label: "Open L2"},
			},
			AutoAction: auto,
			Severity:   sev,
			Domain:     schema.DomainDataFlow,
			GateImpact: gate,
		}))
	}

	if sig.PermissionConflict {
		items = append(items, NewWarning(schema.Warning{
			ID:     WarnPermissionDelete,
			Title:  "Permission-Action Conflict",
			Detail: "Delete permission is enabled for: " + strings.Join(sig.DeleteRoles, ", "),
			Actions: []schema.Action{
				{ID: ActionApplyPermissionGuard, Label: "Apply delete guard"},
				{ID: ActionGoL2, Label: "Open L2"},
			},
			AutoAction: ActionApplyPermissionGuard,
			Severity:   schema.SeverityCritical,
			Domain:     schema.DomainPermission,
			GateImpact: schema.GateHard,
		}))
	}

	if sig.IntentMismatch {
		items = append(items, NewWarning(schema.Warning{
			ID:     WarnIntentMismatch,
			Title:  "Intent-Spec Coherence",
			Detail: "The L1 core problem sentence is not reflected in the L2 Text axis.",
			Actions: []schema.Action{
				{ID: ActionAlignIntent, Label: "Reflect intent"},
				{ID: ActionGoL1, Label: "Open L1"},
			},
			AutoAction: ActionAlignIntent,
			Severity:   schema.SeverityHigh,
			Domain:     schema.DomainCoherence,
			GateImpact: schema.GateHard,
		}))
	}

	Sort(items)
	return items
}

// Unresolved drops warnings whose id is in resolved, keeping order.
func Unresolved(ws []schema.Warning, resolved map[string]bool) []schema.Warning {
	out := make([]schema.Warning, 0, len(ws))
	for _, w := range ws {
		if !resolved[w.ID] {
			out = append(out, w)
		}
	}
	return out
}

// Find returns the warning with id, if present.
func Find(ws []schema.Warning, id string) (schema.Warning, bool) {
	for _, w := range ws {
		if w.ID == id {
			return w, true
		}
	}
	return schema.Warning{}, false
}
