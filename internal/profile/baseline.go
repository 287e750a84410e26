package profile

func baseline() *Profile {
	return &Profile{
		Name:         Baseline,
		ExampleMode:  "none",
		SectionOrder: append([]string(nil), defaultSectionOrder...),
	}
}
