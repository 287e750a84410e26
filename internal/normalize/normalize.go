// Package normalize maps arbitrary parsed model output into a fully
// populated schema.Spec. It never fails: every missing or malformed field
// has a deterministic default.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
)

// Built-in follow-up questions used when the source supplies too few.
const (
	questionWho     = "Who is the core user (role) that actually uses this feature?"
	questionWhat    = "What is the first core task the user has to get done?"
	questionSuccess = "How should completion be judged, as a number or a condition?"
	questionInputs  = "Which required inputs (for example vendor, product, quantity) must never be missing?"
	questionScope   = "How should read and edit scope be split between regular users and administrators?"
)

// Normalize converts raw (typically the result of json.Unmarshal into any)
// into a canonical Spec. nil, arrays, scalars and partial objects are all
// accepted.
func Normalize(raw any) schema.Spec {
	src := asObject(raw)

	frameSrc := pickObject(src, keyProblemFrame...)
	interviewSrc := pickObject(src, keyInterview...)
	featuresSrc := pickObject(src, keyFeatures...)
	ambiguitySrc := pickObject(src, keyAmbiguities...)
	requestSrc := pickObject(src, keyRequests...)
	impactSrc := pickObject(src, keyImpact...)
	completenessSrc := pickObject(src, keyCompleteness...)

	s := schema.Spec{
		Summary: Text(pick(src, keySummary...), FallbackSummary),
		ProblemFrame: schema.ProblemFrame{
			Who:             Text(pick(frameSrc, keyWho...), FallbackWho),
			When:            Text(pick(frameSrc, keyWhen...), FallbackWhen),
			What:            Text(pick(frameSrc, keyWhat...), FallbackWhat),
			Why:             Text(pick(frameSrc, keyWhy...), FallbackWhy),
			SuccessCriteria: Text(pick(frameSrc, keySuccess...), FallbackSuccess),
		},
		Roles: normalizeRoles(pickArray(src, keyRoles...)),
		Features: schema.Features{
			Must: StringList(pick(featuresSrc, keyMust...)),
			Nice: StringList(pick(featuresSrc, keyNice...)),
		},
		Flow:        FixedList(pick(src, keyFlow...), schema.FlowStepCount, PrefixFlow),
		InputFields: normalizeInputFields(pickArray(src, keyInputFields...)),
		Permissions: normalizePermissions(pickArray(src, keyPermissions...)),
		Ambiguities: schema.Ambiguities{
			Missing:   StringList(pick(ambiguitySrc, keyMissing...)),
			Questions: FixedList(pick(ambiguitySrc, keyQuestions...), schema.QuestionCount, PrefixQuestion),
		},
		Risks:     FixedList(pick(src, keyRisks...), schema.RiskCount, PrefixRisk),
		Tests:     FixedList(pick(src, keyTests...), schema.TestCount, PrefixTest),
		NextSteps: FixedList(pick(src, keyNext...), schema.NextStepCount, PrefixNext),
		Impact: schema.ImpactPreview{
			Screens:     StringList(pick(impactSrc, keyScreens...)),
			Permissions: StringList(pick(impactSrc, keyImpactPerms...)),
			Tests:       StringList(pick(impactSrc, keyImpactTests...)),
		},
		LayerGuide: normalizeLayerGuide(pick(src, keyLayerGuide...)),
	}
	s.Interview.FollowUps = followUpQuestions(s.ProblemFrame, interviewSrc, ambiguitySrc)

	s.Requests = schema.RequestVariants{
		Original: Text(pick(requestSrc, keyOriginal...), s.Summary),
		Short:    Text(pick(requestSrc, keyShort...), ""),
		Standard: Text(pick(requestSrc, keyStandard...), ""),
		Detailed: Text(pick(requestSrc, keyDetailed...), ""),
	}
	standardProvided := s.Requests.Standard != ""
	short, standard, detailed := fallbackRequests(s.Summary, s.Features.Must, s.Tests)
	if s.Requests.Short == "" {
		s.Requests.Short = short
	}
	if s.Requests.Standard == "" {
		s.Requests.Standard = standard
	}
	if s.Requests.Detailed == "" {
		s.Requests.Detailed = detailed
	}

	if len(s.Impact.Screens) == 0 {
		s.Impact.Screens = fallbackScreenImpact(s.Flow)
	}
	if len(s.Impact.Permissions) == 0 {
		s.Impact.Permissions = fallbackPermissionImpact(s.Permissions)
	}
	if len(s.Impact.Tests) == 0 {
		s.Impact.Tests = fallbackTestImpact(s.Tests)
	}

	if score, ok := IntInRange(pick(completenessSrc, keyScore...), 0, 100); ok {
		s.Completeness.Score = score
	} else {
		s.Completeness.Score = ComputeScore(&s)
	}
	if provided := StringList(pick(completenessSrc, keyWarnings...)); len(provided) > 0 {
		s.Completeness.Warnings = provided
	} else {
		s.Completeness.Warnings = ComputeWarnings(&s, standardProvided)
	}
	return s
}

// NormalizeJSON decodes data and normalizes it. Undecodable input is
// normalized as if it were empty.
func NormalizeJSON(data []byte) schema.Spec {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return Normalize(nil)
	}
	return Normalize(raw)
}

// Renormalize round-trips an already canonical Spec through the normalizer.
func Renormalize(s schema.Spec) schema.Spec {
	data, err := json.Marshal(s)
	if err != nil {
		return Normalize(nil)
	}
	return NormalizeJSON(data)
}

func normalizeRoles(items []any) []schema.Role {
	out := []schema.Role{}
	for _, item := range items {
		obj := asObject(item)
		r := schema.Role{
			Role:        Text(pick(obj, keyRole...), ""),
			Description: Text(pick(obj, keyDescription...), ""),
		}
		if r.Role != "" || r.Description != "" {
			out = append(out, r)
		}
	}
	return out
}

func normalizeInputFields(items []any) []schema.InputField {
	out := []schema.InputField{}
	for _, item := range items {
		obj := asObject(item)
		f := schema.InputField{
			Name:    Text(pick(obj, keyName...), ""),
			Type:    Text(pick(obj, keyType...), ""),
			Example: Text(pick(obj, keyExample...), ""),
		}
		if f.Name != "" || f.Type != "" || f.Example != "" {
			out = append(out, f)
		}
	}
	return out
}

func normalizePermissions(items []any) []schema.PermissionRule {
	out := []schema.PermissionRule{}
	for _, item := range items {
		obj := asObject(item)
		r := schema.PermissionRule{
			Role:   Text(pick(obj, keyRole...), ""),
			Read:   Bool(pick(obj, keyRead...), false),
			Create: Bool(pick(obj, keyCreate...), false),
			Update: Bool(pick(obj, keyUpdate...), false),
			Delete: Bool(pick(obj, keyDelete...), false),
			Notes:  Text(pick(obj, keyNotes...), ""),
		}
		if r.Role != "" || r.Notes != "" {
			out = append(out, r)
		}
	}
	return out
}

// followUpQuestions always yields exactly three distinct questions: model
// follow-ups first, then ambiguity questions, then one question per missing
// item, then built-in questions.
func followUpQuestions(frame schema.ProblemFrame, interviewSrc, ambiguitySrc map[string]any) []string {
	var candidates []string
	candidates = append(candidates, StringList(pick(interviewSrc, keyFollowUps...))...)
	candidates = append(candidates, StringList(pick(ambiguitySrc, keyQuestions...))...)
	for _, m := range StringList(pick(ambiguitySrc, keyMissing...)) {
		candidates = append(candidates, fmt.Sprintf("How should we settle %s?", m))
	}
	if !present(frame.Who, FallbackWho) {
		candidates = append(candidates, questionWho)
	}
	if !present(frame.What, FallbackWhat) {
		candidates = append(candidates, questionWhat)
	}
	if !present(frame.SuccessCriteria, FallbackSuccess) {
		candidates = append(candidates, questionSuccess)
	}
	candidates = append(candidates, questionInputs, questionScope)

	seen := map[string]bool{}
	unique := make([]string, 0, len(candidates))
	for _, q := range candidates {
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		unique = append(unique, q)
	}
	return padList(unique, schema.FollowUpCount, PrefixFollowUp)
}
