package schema

// Severity levels for warnings.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Domain groups warnings by the concern they threaten.
type Domain string

const (
	DomainPermission   Domain = "permission"
	DomainDataFlow     Domain = "data_flow"
	DomainCoherence    Domain = "coherence"
	DomainCompleteness Domain = "completeness"
)

// GateImpact says whether a warning can block the gate on its own.
type GateImpact string

const (
	GateHard GateImpact = "hard"
	GateSoft GateImpact = "soft"
)

// GateStatus is derived from the unresolved warnings and never stored.
type GateStatus string

const (
	GateBlocked GateStatus = "blocked"
	GateReview  GateStatus = "review"
	GatePass    GateStatus = "pass"
)

// GateOrdinal returns the numeric ordering used by --fail-on comparison.
// pass(0) < review(1) < blocked(2). Returns -1 for an unrecognised status.
func GateOrdinal(g GateStatus) int {
	switch g {
	case GatePass:
		return 0
	case GateReview:
		return 1
	case GateBlocked:
		return 2
	default:
		return -1
	}
}

// Signal is a tri-state integrity result.
type Signal string

const (
	SignalPass   Signal = "pass"
	SignalReview Signal = "review"
	SignalFail   Signal = "fail"
)

// Action is a call to action attached to a warning.
type Action struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Warning is a scored, actionable issue. Warnings are recomputed from state
// on every change and are never persisted.
type Warning struct {
	ID         string     `json:"id" yaml:"id"`
	Title      string     `json:"title" yaml:"title"`
	Detail     string     `json:"detail" yaml:"detail"`
	Actions    []Action   `json:"actions" yaml:"actions"`
	AutoAction string     `json:"auto_action" yaml:"auto_action"`
	Severity   Severity   `json:"severity" yaml:"severity"`
	Domain     Domain     `json:"domain" yaml:"domain"`
	GateImpact GateImpact `json:"gate_impact" yaml:"gate_impact"`
	Score      int        `json:"score" yaml:"score"`
}

// Signals is the output of the integrity engine.
type Signals struct {
	DataFlow    Signal   `json:"data_flow" yaml:"data_flow"`
	Permission  Signal   `json:"permission" yaml:"permission"`
	Coherence   Signal   `json:"coherence" yaml:"coherence"`
	DeleteRoles []string `json:"delete_roles" yaml:"delete_roles"`

	PermissionConflict  bool `json:"permission_conflict" yaml:"permission_conflict"`
	IntentMismatch      bool `json:"intent_mismatch" yaml:"intent_mismatch"`
	LowIntentConfidence bool `json:"low_intent_confidence" yaml:"low_intent_confidence"`
}

// WarningSummary aggregates the unresolved warnings.
type WarningSummary struct {
	Total          int              `json:"total" yaml:"total"`
	HardBlockCount int              `json:"hard_block_count" yaml:"hard_block_count"`
	BySeverity     map[Severity]int `json:"by_severity" yaml:"by_severity"`
	ByDomain       map[Domain]int   `json:"by_domain" yaml:"by_domain"`
}
