package normalize

import (
	"math"
	"regexp"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
)

// Completeness warning sentences, one per failed check.
const (
	WarnSummary     = "The one-line summary is empty."
	WarnWho         = "Problem frame: who is empty."
	WarnWhat        = "Problem frame: what is empty."
	WarnSuccess     = "Problem frame: success criteria are empty."
	WarnRoles       = "User roles are empty."
	WarnMust        = "Must-have features are empty."
	WarnInputFields = "Input data fields are empty."
	WarnPermissions = "Permission rules are empty."
	WarnTests       = "Test scenarios are missing or incomplete."
	WarnStandard    = "The standard request text is empty."
)

func present(s, fallback string) bool {
	return s != "" && s != fallback
}

func countReal(items []string, placeholder *regexp.Regexp) int {
	n := 0
	for _, s := range items {
		if !placeholder.MatchString(s) {
			n++
		}
	}
	return n
}

// scoreChecks are the ten checks behind the computed completeness score.
// Placeholder values never count as present.
func scoreChecks(s *schema.Spec) []bool {
	return []bool{
		present(s.Summary, FallbackSummary),
		present(s.ProblemFrame.Who, FallbackWho),
		present(s.ProblemFrame.What, FallbackWhat),
		present(s.ProblemFrame.SuccessCriteria, FallbackSuccess),
		len(s.Roles) > 0,
		len(s.Features.Must) > 0,
		countReal(s.Flow, flowPlaceholder) == schema.FlowStepCount,
		len(s.InputFields) > 0,
		len(s.Permissions) > 0,
		countReal(s.Tests, testPlaceholder) == schema.TestCount,
	}
}

// ComputeScore returns round(100 * passed / total) over the score checks.
func ComputeScore(s *schema.Spec) int {
	checks := scoreChecks(s)
	passed := 0
	for _, ok := range checks {
		if ok {
			passed++
		}
	}
	return int(math.Floor(100*float64(passed)/float64(len(checks)) + 0.5))
}

// ComputeWarnings returns one sentence per failed completeness check.
// standardProvided reports whether the source carried its own standard
// request text before fallbacks were applied.
func ComputeWarnings(s *schema.Spec, standardProvided bool) []string {
	warnings := []string{}
	add := func(failed bool, msg string) {
		if failed {
			warnings = append(warnings, msg)
		}
	}
	add(!present(s.Summary, FallbackSummary), WarnSummary)
	add(!present(s.ProblemFrame.Who, FallbackWho), WarnWho)
	add(!present(s.ProblemFrame.What, FallbackWhat), WarnWhat)
	add(!present(s.ProblemFrame.SuccessCriteria, FallbackSuccess), WarnSuccess)
	add(len(s.Roles) == 0, WarnRoles)
	add(len(s.Features.Must) == 0, WarnMust)
	add(len(s.InputFields) == 0, WarnInputFields)
	add(len(s.Permissions) == 0, WarnPermissions)
	add(countReal(s.Tests, testPlaceholder) < schema.TestCount, WarnTests)
	add(!standardProvided, WarnStandard)
	return warnings
}
