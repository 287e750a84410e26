package integrity

import "github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"

func blocks(w schema.Warning) bool {
	return w.GateImpact == schema.GateHard && w.Score >= GateThreshold
}

// Gate reduces the unresolved warnings to one status: blocked when any hard
// warning scores at or above GateThreshold, review when any warning remains,
// otherwise pass. Order of ws does not matter.
func Gate(unresolved []schema.Warning) schema.GateStatus {
	for _, w := range unresolved {
		if blocks(w) {
			return schema.GateBlocked
		}
	}
	if len(unresolved) > 0 {
		return schema.GateReview
	}
	return schema.GatePass
}

// Summarize counts the unresolved warnings.
func Summarize(unresolved []schema.Warning) schema.WarningSummary {
	sum := schema.WarningSummary{
		BySeverity: map[schema.Severity]int{},
		ByDomain:   map[schema.Domain]int{},
	}
	for _, w := range unresolved {
		sum.Total++
		if blocks(w) {
			sum.HardBlockCount++
		}
		sev := w.Severity
		if sev == "" {
			sev = schema.SeverityMedium
		}
		dom := w.Domain
		if dom == "" {
			dom = schema.DomainCompleteness
		}
		sum.BySeverity[sev]++
		sum.ByDomain[dom]++
	}
	return sum
}
