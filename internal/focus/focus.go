// Package focus routes a selected warning back to the hypothesis fields it
// implicates and grades how urgently they need fixing.
package focus

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/integrity"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
)

var idTargets = map[string][]schema.Field{
	integrity.WarnIntentUnconfirmed: schema.FieldOrder,
	integrity.WarnIntentMismatch:    {schema.FieldWhat, schema.FieldWhy},
	integrity.WarnDataFlowAlignment: {schema.FieldWhat, schema.FieldWhen, schema.FieldSuccess},
	integrity.WarnPermissionDelete:  {schema.FieldWho, schema.FieldWhat},
}

var lowConfidenceDefault = []schema.Field{schema.FieldWho, schema.FieldWhat, schema.FieldSuccess}

var domainTargets = map[schema.Domain][]schema.Field{
	schema.DomainPermission:   {schema.FieldWho, schema.FieldWhat},
	schema.DomainDataFlow:     {schema.FieldWhat, schema.FieldWhen, schema.FieldSuccess},
	schema.DomainCoherence:    {schema.FieldWhat, schema.FieldWhy},
	schema.DomainCompleteness: {schema.FieldWhat, schema.FieldSuccess},
}

var fieldMatchers = map[schema.Field]*regexp.Regexp{
	schema.FieldWho:     regexp.MustCompile(`(?i)(누가|대상|사용자|역할|고객|관리자|운영자|담당|주체|권한|\brole|permission|\buser|customer|admin|operator|owner|audience|\bwho\b)`),
	schema.FieldWhen:    regexp.MustCompile(`(?i)(언제|시점|주기|빈도|실시간|매일|주간|월간|타이밍|직후|직전|발생\s*시|시간대|schedule|deadline|timing|daily|weekly|monthly|real[- ]?time|trigger|\bwhen\b)`),
	schema.FieldWhat:    regexp.MustCompile(`(?i)(무엇|기능|동작|요구|입력|출력|필드|스키마|규칙|유효성|검사|연동|동기화|데이터|흐름|\bapi\b|\bdb\b|\bui\b|flow|sync|feature|input|output|field|schema|rule|validation|integration|\bdata\b|\bwhat\b)`),
	schema.FieldWhy:     regexp.MustCompile(`(?i)(왜|이유|목적|문제|가치|개선|의도|정합|coherence|intent|reason|purpose|problem|value|improve|\bwhy\b)`),
	schema.FieldSuccess: regexp.MustCompile(`(?i)(성공|기준|지표|kpi|완료율|오류율|정확도|측정|품질|만족|sla|latency|성능|처리\s*시간|응답\s*시간|시간\s*단축|시간\s*절감|success|criteria|metric|measure|accuracy|quality|satisf|performance|error rate|completion rate|response time|processing time)`),
}

// Urgency grades a warning: red for critical or score >= 90, orange for
// high or score >= 75, yellow otherwise.
func Urgency(w schema.Warning) schema.Urgency {
	sev := schema.Severity(strings.ToLower(string(w.Severity)))
	switch {
	case sev == schema.SeverityCritical || w.Score >= 90:
		return schema.UrgencyRed
	case sev == schema.SeverityHigh || w.Score >= 75:
		return schema.UrgencyOrange
	}
	return schema.UrgencyYellow
}

// ordered dedupes fields, drops unknown ones and returns them in canonical order.
func ordered(fields []schema.Field) []schema.Field {
	keep := make(map[schema.Field]bool, len(fields))
	for _, f := range fields {
		keep[f] = true
	}
	out := []schema.Field{}
	for _, f := range schema.FieldOrder {
		if keep[f] {
			out = append(out, f)
		}
	}
	return out
}

func sourceText(w schema.Warning) string {
	parts := []string{w.Title, w.Detail}
	for _, a := range w.Actions {
		if a.Label != "" {
			parts = append(parts, a.Label)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// TargetFields picks the hypothesis fields a warning points at. lowFields is
// the caller's ordered list of low-confidence fields.
func TargetFields(w schema.Warning, lowFields []schema.Field) []schema.Field {
	if w.ID == integrity.WarnIntentLowConfidence {
		if low := ordered(lowFields); len(low) > 0 {
			return low
		}
		return append([]schema.Field(nil), lowConfidenceDefault...)
	}
	if fixed, ok := idTargets[w.ID]; ok {
		return append([]schema.Field(nil), fixed...)
	}

	fallback, ok := domainTargets[w.Domain]
	if !ok {
		fallback = domainTargets[schema.DomainCompleteness]
	}
	scores := make(map[schema.Field]int, len(schema.FieldOrder))
	for _, f := range fallback {
		scores[f]++
	}
	text := sourceText(w)
	for _, f := range schema.FieldOrder {
		if fieldMatchers[f].MatchString(text) {
			scores[f] += 2
		}
	}
	return pick(scores, fallback)
}

func pick(scores map[schema.Field]int, fallback []schema.Field) []schema.Field {
	var ranked []schema.Field
	for _, f := range schema.FieldOrder {
		if scores[f] > 0 {
			ranked = append(ranked, f)
		}
	}
	if len(ranked) == 0 {
		return append([]schema.Field(nil), fallback...)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i]] > scores[ranked[j]]
	})

	floor := max(2, scores[ranked[0]]-1)
	var selected []schema.Field
	for _, f := range ranked {
		if scores[f] >= floor && len(selected) < 3 {
			selected = append(selected, f)
		}
	}
	if len(selected) == 0 {
		selected = ranked[:min(2, len(ranked))]
	}
	if len(selected) == 1 && len(fallback) >= 2 {
		extra := fallback[1]
		if extra == selected[0] {
			extra = fallback[0]
		}
		selected = append(selected, extra)
	}
	return ordered(selected)
}
