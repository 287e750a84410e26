// Package integrity derives the dataFlow, permission and coherence signals,
// turns them and the spec's completeness warnings into scored warnings, and
// reduces the unresolved warnings to one gate status.
package integrity

import (
	"strings"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/intel"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
)

// UnnamedRole labels a delete-granting permission row with no role name.
const UnnamedRole = "Unnamed role"

// Input is the panel state the signals and warnings are derived from.
type Input struct {
	Spec            schema.Spec
	Hypothesis      schema.Hypothesis
	LogicMap        schema.LogicMap
	ChangedAxis     schema.Axis // "" when no axis was just edited
	PermissionGuard bool
	Confirmed       bool
	Intent          intel.Intent
	Logic           intel.Logic
}

// DeleteRoles lists the roles granted delete, in matrix order.
func DeleteRoles(rules []schema.PermissionRule) []string {
	roles := []string{}
	for _, r := range rules {
		if !r.Delete {
			continue
		}
		name := strings.TrimSpace(r.Role)
		if name == "" {
			name = UnnamedRole
		}
		roles = append(roles, name)
	}
	return roles
}

// Evaluate computes the three integrity signals.
func Evaluate(in Input) schema.Signals {
	deleteRoles := DeleteRoles(in.Spec.Permissions)
	what := strings.TrimSpace(in.Hypothesis.What)

	sig := schema.Signals{
		DeleteRoles:         deleteRoles,
		PermissionConflict:  len(deleteRoles) > 0 && !in.PermissionGuard,
		IntentMismatch:      what != "" && !strings.Contains(in.LogicMap.Text, what),
		LowIntentConfidence: in.Intent.Overall < intel.LowConfidenceThreshold,
	}

	switch {
	case in.ChangedAxis != "" || in.Logic.Alignment < intel.LowAlignment || in.Logic.Overall < 60:
		sig.DataFlow = schema.SignalFail
	case in.Logic.Alignment < 70 || len(in.Logic.SyncSuggestions) > 0:
		sig.DataFlow = schema.SignalReview
	default:
		sig.DataFlow = schema.SignalPass
	}

	sig.Permission = schema.SignalPass
	if sig.PermissionConflict {
		sig.Permission = schema.SignalFail
	}

	switch {
	case sig.IntentMismatch:
		sig.Coherence = schema.SignalFail
	case sig.LowIntentConfidence:
		sig.Coherence = schema.SignalReview
	default:
		sig.Coherence = schema.SignalPass
	}
	return sig
}
