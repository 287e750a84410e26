package profile

func strictFormat() *Profile {
	return &Profile{
		Name:          StrictFormat,
		AllowExamples: true,
		ExampleMode:   "minimal",
		PositiveFirst: true,
		SectionOrder:  append(append([]string(nil), defaultSectionOrder...), SectionExamples),
		Constraints: []string{
			"Do not simply paraphrase the user vibe.",
			"Keep the output field order stable and aligned with the provided schema.",
			"Always include concrete output shape, failure handling, and completion criteria when the request is abstract.",
		},
		Goals: []string{
			"Convert the user vibe into an implementation-ready spec with predictable JSON formatting.",
			"Use the example only as a shape hint and keep the actual content grounded in the current request.",
		},
		Examples: []string{
			`{"one_line_summary":"summary","problem_frame":{"who":"user","when":"situation","what":"action","why":"purpose","success_criteria":"measurable criterion"}}`,
		},
	}
}
