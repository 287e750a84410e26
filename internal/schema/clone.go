package schema

import "slices"

// Clone returns a deep copy of s. Strings are copied byte for byte.
func (s Spec) Clone() Spec {
	out := s
	out.Interview.FollowUps = slices.Clone(s.Interview.FollowUps)
	out.Roles = slices.Clone(s.Roles)
	out.Features.Must = slices.Clone(s.Features.Must)
	out.Features.Nice = slices.Clone(s.Features.Nice)
	out.Flow = slices.Clone(s.Flow)
	out.InputFields = slices.Clone(s.InputFields)
	out.Permissions = slices.Clone(s.Permissions)
	out.Ambiguities.Missing = slices.Clone(s.Ambiguities.Missing)
	out.Ambiguities.Questions = slices.Clone(s.Ambiguities.Questions)
	out.Risks = slices.Clone(s.Risks)
	out.Tests = slices.Clone(s.Tests)
	out.NextSteps = slices.Clone(s.NextSteps)
	out.Impact.Screens = slices.Clone(s.Impact.Screens)
	out.Impact.Permissions = slices.Clone(s.Impact.Permissions)
	out.Impact.Tests = slices.Clone(s.Impact.Tests)
	out.LayerGuide = slices.Clone(s.LayerGuide)
	out.Completeness.Warnings = slices.Clone(s.Completeness.Warnings)
	return out
}

// Clone returns a deep copy of g. A nil guide stays nil.
func (g *FocusGuide) Clone() *FocusGuide {
	if g == nil {
		return nil
	}
	out := *g
	out.TargetFields = slices.Clone(g.TargetFields)
	return &out
}
