package profile

func beginnerZeroShot() *Profile {
	return &Profile{
		Name:          BeginnerZeroShot,
		ExampleMode:   "none",
		PositiveFirst: true,
		SectionOrder:  append([]string(nil), defaultSectionOrder...),
		Constraints: []string{
			"Do not simply paraphrase the user vibe.",
			"Do not write long explanations.",
			"Always include concrete output shape, failure handling, and completion criteria when the request is abstract.",
		},
		Goals: []string{
			"Convert the user vibe into concrete implementation steps a beginner can execute immediately.",
			"State clear success conditions so the result can be verified without extra clarification.",
		},
	}
}
