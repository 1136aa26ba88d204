package testcase

// Generate runs the full pipeline: normalize, mint the base id, synthesize
// and validate. Validation failures do not fail the result; only an
// unsupported variant does, and Normalize never produces one.
func Generate(input any) *GenerationResult {
	normalized := Normalize(input)
	baseID := BaseID(normalized)

	set, err := Synthesize(normalized, baseID)
	if err != nil {
		return &GenerationResult{
			Success:   false,
			InputType: normalized.InputType(),
			BaseID:    baseID,
			Error:     err.Error(),
		}
	}

	return &GenerationResult{
		Success:    true,
		InputType:  normalized.InputType(),
		BaseID:     baseID,
		Validation: Validate(set),
		TestCases:  set,
		Summary: Summary{
			TotalCases: set.TotalCases(),
			BySection:  set.BySection(),
		},
	}
}
