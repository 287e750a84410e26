package intel

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
)

// LowConfidenceThreshold marks a hypothesis field (or the overall score) as
// weakly supported by the vibe.
const LowConfidenceThreshold = 65

// Intent is the hypothesis confidence report.
type Intent struct {
	Overall         int                  `json:"overall" yaml:"overall"`
	Band            string               `json:"band" yaml:"band"`
	FieldConfidence map[schema.Field]int `json:"field_confidence" yaml:"field_confidence"`
	Suggested       schema.Hypothesis    `json:"suggested" yaml:"suggested"`
	LowFields       []schema.Field       `json:"low_fields" yaml:"low_fields"`
	Questions       []string             `json:"questions" yaml:"questions"`
}

var (
	suggestWho     = regexp.MustCompile(`(?i)(초보자|비전공자|개발자|운영자|관리자|고객|사용자|팀|학생|창업자|\bbeginners?|\bdevelopers?|\boperators?|\bmanagers?|\badmins?|\bcustomers?|\busers?|\bteams?|\bstudents?|\bfounders?)[^,.!?]*`)
	suggestWhen    = regexp.MustCompile(`(?i)(실시간|매일|주간|월간|로그인\S* 후|결제\S* 시|주문\S* 시|배포\S* 전|오류 발생 시|real[- ]time|every (?:day|morning|week|month)|daily|weekly|monthly|after (?:login|checkout|payment)|before (?:deploy|release)|when an error occurs)`)
	suggestWhy     = regexp.MustCompile(`(?i)[^.!?]*(문제|불편|개선|목표|위해|줄이기|높이기|problem|pain|improve|goal|so that|reduce|increase)[^.!?]*`)
	suggestSuccess = regexp.MustCompile(`(?i)[^.!?]*(성공|완료|전환|오류|시간|만족|지표|kpi|측정|success|complete|conversion|error|time|satisf|metric|measure)[^.!?]*`)
	sentenceBreak  = regexp.MustCompile(`[.!?]`)
)

// fieldConfidence scores how well value is grounded in the vibe: 40 base,
// +18 for length >= 6, +12 when not filler, +18 when quoted verbatim, and up
// to +24 from token overlap.
func fieldConfidence(value, vibe string) int {
	v := collapse(value)
	if v == "" {
		return 0
	}
	vibe = collapse(vibe)
	score := 40
	if len([]rune(v)) >= 6 {
		score += 18
	}
	if !fillerPattern.MatchString(v) {
		score += 12
	}
	if vibe != "" && strings.Contains(vibe, v) {
		score += 18
	}
	score += round(Overlap(v, vibe) * 24)
	return clamp(score, 0, 100)
}

func suggestField(f schema.Field, vibe, fallback string) string {
	vibe = collapse(vibe)
	if vibe == "" {
		return fallback
	}
	var m string
	switch f {
	case schema.FieldWho:
		m = suggestWho.FindString(vibe)
	case schema.FieldWhen:
		m = suggestWhen.FindString(vibe)
	case schema.FieldWhat:
		for _, part := range sentenceBreak.Split(vibe, -1) {
			if p := strings.TrimSpace(part); p != "" {
				m = p
				break
			}
		}
	case schema.FieldWhy:
		m = suggestWhy.FindString(vibe)
	case schema.FieldSuccess:
		m = suggestSuccess.FindString(vibe)
	}
	if m = strings.TrimSpace(m); m != "" {
		return m
	}
	return fallback
}

func band(score int) string {
	switch {
	case score >= 80:
		return "high"
	case score >= 60:
		return "medium"
	}
	return "low"
}

func clarifyingQuestion(f schema.Field, h schema.Hypothesis, suggestion string) string {
	example := func(def string) string {
		if suggestion != "" {
			return suggestion
		}
		if cur := h.Get(f); cur != "" {
			return cur
		}
		return def
	}
	switch f {
	case schema.FieldWho:
		return fmt.Sprintf("Pin down who the user is. For example: %s", example("regular user / operations admin"))
	case schema.FieldWhen:
		return fmt.Sprintf("Decide when this happens. For example: %s", example("right after login / right after payment"))
	case schema.FieldWhat:
		return "Settle what in one sentence. What does it automate or improve?"
	case schema.FieldWhy:
		return "Give the core reason. Which problem does it reduce, or which value does it create?"
	}
	return "Decide how success is measured. For example: processing time, error rate, completion rate"
}

// AnalyzeIntent scores each hypothesis field against the vibe text and
// derives a suggested hypothesis plus up to three clarifying questions for
// the weakest fields.
func AnalyzeIntent(vibe string, h schema.Hypothesis) Intent {
	in := Intent{
		FieldConfidence: make(map[schema.Field]int, len(schema.FieldOrder)),
		LowFields:       []schema.Field{},
		Questions:       []string{},
	}
	total := 0
	for _, f := range schema.FieldOrder {
		c := fieldConfidence(h.Get(f), vibe)
		in.FieldConfidence[f] = c
		total += c

		current := strings.TrimSpace(h.Get(f))
		if current == "" {
			current = suggestField(f, vibe, "")
		}
		in.Suggested.Set(f, current)

		if c < LowConfidenceThreshold {
			in.LowFields = append(in.LowFields, f)
		}
	}
	in.Overall = round(float64(total) / float64(len(schema.FieldOrder)))
	in.Band = band(in.Overall)

	sort.SliceStable(in.LowFields, func(i, j int) bool {
		return in.FieldConfidence[in.LowFields[i]] < in.FieldConfidence[in.LowFields[j]]
	})
	for i, f := range in.LowFields {
		if i == 3 {
			break
		}
		in.Questions = append(in.Questions, clarifyingQuestion(f, h, in.Suggested.Get(f)))
	}
	return in
}
