package integrity

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
)

// GateThreshold is the minimum score at which a hard warning blocks the gate.
const GateThreshold = 70

var severityBase = map[schema.Severity]int{
	schema.SeverityCritical: 95,
	schema.SeverityHigh:     78,
	schema.SeverityMedium:   58,
	schema.SeverityLow:      35,
}

var domainWeight = map[schema.Domain]int{
	schema.DomainPermission:   20,
	schema.DomainDataFlow:     14,
	schema.DomainCoherence:    10,
	schema.DomainCompleteness: 6,
}

// Score computes the deterministic warning score:
// severity base + domain weight, +8 when hard, -2 when the warning carries
// actions, +4 when it has an auto action, clamped to [0,100].
// Unknown severities and domains score as medium and completeness.
func Score(sev schema.Severity, dom schema.Domain, gate schema.GateImpact, hasActions, hasAuto bool) int {
	base, ok := severityBase[sev]
	if !ok {
		base = severityBase[schema.SeverityMedium]
	}
	weight, ok := domainWeight[dom]
	if !ok {
		weight = domainWeight[schema.DomainCompleteness]
	}
	score := base + weight
	if gate == schema.GateHard {
		score += 8
	}
	if hasActions {
		score -= 2
	}
	if hasAuto {
		score += 4
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// riskRules classify free-text warnings. The first match wins.
var riskRules = []struct {
	pattern  *regexp.Regexp
	severity schema.Severity
	domain   schema.Domain
	gate     schema.GateImpact
}{
	{regexp.MustCompile(`권한|삭제|보안|permission|delete|security`), schema.SeverityCritical, schema.DomainPermission, schema.GateHard},
	{regexp.MustCompile(`데이터|흐름|동기화|data|flow|sync|\bdb\b|\bapi\b`), schema.SeverityHigh, schema.DomainDataFlow, schema.GateHard},
	{regexp.MustCompile(`의도|정합|intent|coherence`), schema.SeverityHigh, schema.DomainCoherence, schema.GateHard},
}

// ClassifyRisk infers severity, domain and gate impact from warning text.
func ClassifyRisk(text string) (schema.Severity, schema.Domain, schema.GateImpact) {
	lower := strings.ToLower(text)
	for _, r := range riskRules {
		if r.pattern.MatchString(lower) {
			return r.severity, r.domain, r.gate
		}
	}
	return schema.SeverityMedium, schema.DomainCompleteness, schema.GateSoft
}

// NewWarning builds a warning and fills in its score.
func NewWarning(w schema.Warning) schema.Warning {
	if w.Actions == nil {
		w.Actions = []schema.Action{}
	}
	w.Score = Score(w.Severity, w.Domain, w.GateImpact, len(w.Actions) > 0, w.AutoAction != "")
	return w
}

// Sort orders warnings by descending score, then ascending id.
func Sort(ws []schema.Warning) {
	sort.SliceStable(ws, func(i, j int) bool {
		if ws[i].Score != ws[j].Score {
			return ws[i].Score > ws[j].Score
		}
		return ws[i].ID < ws[j].ID
	})
}

// FilterBySeverity returns only warnings at or above the given severity.
// The gate must be computed before filtering.
func FilterBySeverity(ws []schema.Warning, threshold schema.Severity) []schema.Warning {
	if threshold == schema.SeverityLow {
		return ws
	}
	out := make([]schema.Warning, 0, len(ws))
	for _, w := range ws {
		if SeverityOrdinal(w.Severity) >= SeverityOrdinal(threshold) {
			out = append(out, w)
		}
	}
	return out
}

// SeverityOrdinal orders severities low(0) < medium < high < critical(3).
// Returns -1 for an unrecognised severity.
func SeverityOrdinal(s schema.Severity) int {
	switch s {
	case schema.SeverityLow:
		return 0
	case schema.SeverityMedium:
		return 1
	case schema.SeverityHigh:
		return 2
	case schema.SeverityCritical:
		return 3
	}
	return -1
}
