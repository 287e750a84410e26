package normalize

import (
	"fmt"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
)

// Placeholder sentences substituted for missing string fields.
const (
	FallbackSummary = "A one-line summary still needs to be defined."
	FallbackWho     = "Primary user needs to be defined"
	FallbackWhen    = "Usage moment needs to be defined"
	FallbackWhat    = "Task to solve needs to be defined"
	FallbackWhy     = "Problem background needs to be defined"
	FallbackSuccess = "Success criteria need to be defined"
)

// Padding prefixes for fixed-length lists.
const (
	PrefixFollowUp = "Follow-up question"
	PrefixFlow     = "User flow step"
	PrefixQuestion = "Clarifying question"
	PrefixRisk     = "Risk"
	PrefixTest     = "Test scenario"
	PrefixNext     = "Today task"
)

var (
	flowPlaceholder = placeholderPattern(PrefixFlow)
	testPlaceholder = placeholderPattern(PrefixTest)
)

// defaultLayers is the built-in L1..L5 progression used for any layer the
// source leaves out.
func defaultLayers() []schema.LayerEntry {
	return []schema.LayerEntry{
		{Layer: "L1", Goal: "Structure the problem", Output: "Five-slot problem frame"},
		{Layer: "L2", Goal: "Translate it into a buildable spec", Output: "Roles, features, flow, data, permissions"},
		{Layer: "L3", Goal: "Turn requests into something you can hand off", Output: "Short, standard, and detailed request text"},
		{Layer: "L4", Goal: "Verify gaps and impact", Output: "Completeness score, missing warnings, impact preview"},
		{Layer: "L5", Goal: "Accumulate learning", Output: "Today tasks and next retrospective points"},
	}
}

func fallbackRequests(summary string, must, tests []string) (short, standard, detailed string) {
	headline := summary
	if headline == "" {
		headline = "Feature improvement request"
	}
	first := "the core feature"
	if len(must) > 0 {
		first = must[0]
	}
	test := "the happy-path test"
	if len(tests) > 0 {
		test = tests[0]
	}
	short = fmt.Sprintf("Please implement %s today.", first)
	standard = fmt.Sprintf("%s. Priority is %s, and it is done when %s passes.", headline, first, test)
	detailed = fmt.Sprintf("%s\n- Build first: %s\n- Verify with: %s\n- On failure: separate missing input, missing permission, and validation failure cases with their own error messages.", headline, first, test)
	return short, standard, detailed
}

func fallbackScreenImpact(flow []string) []string {
	out := make([]string, 0, len(flow))
	for _, step := range flow {
		out = append(out, step+" (screen impact possible)")
	}
	return out
}

func fallbackPermissionImpact(rules []schema.PermissionRule) []string {
	if len(rules) == 0 {
		return []string{"Review the role CRUD permission matrix"}
	}
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		role := r.Role
		if role == "" {
			role = "Unnamed role"
		}
		out = append(out, role+" permissions need review")
	}
	return out
}

func fallbackTestImpact(tests []string) []string {
	out := make([]string, 0, len(tests))
	for _, t := range tests {
		out = append(out, t+" (verification case affected)")
	}
	return out
}
