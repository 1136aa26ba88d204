package testcase

import "fmt"

// minCasesPerSection is the floor the validator enforces per section.
const minCasesPerSection = 3

// requiredFields lists the fields every case must carry, in report order.
var requiredFields = []string{
	"id", "title", "type", "precondition",
	"steps", "expected_result", "test_data", "priority",
}

// Validate checks a TestCaseSet against the output contract. All violations
// are accumulated; nothing short-circuits. A failed validation is a
// diagnostic, not an abort: the set is returned to the caller unchanged
// alongside the result.
func Validate(set TestCaseSet) ValidationResult {
	var errs []string

	for _, section := range Sections {
		cases, ok := set[section]
		if !ok {
			errs = append(errs, fmt.Sprintf("Missing or invalid section: %s", section))
			continue
		}

		if len(cases) < minCasesPerSection {
			errs = append(errs, fmt.Sprintf("Section %s has less than %d test cases", section, minCasesPerSection))
		}

		for i, tc := range cases {
			for _, field := range requiredFields {
				if fieldMissing(tc, field) {
					errs = append(errs, fmt.Sprintf("Section %s, case %d: Missing field %s", section, i+1, field))
				}
			}
			if len(tc.Steps) == 0 {
				errs = append(errs, fmt.Sprintf("Section %s, case %d: Steps array is empty", section, i+1))
			}
		}
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// fieldMissing treats a zero value as an absent field.
func fieldMissing(tc TestCase, field string) bool {
	switch field {
	case "id":
		return tc.ID == ""
	case "title":
		return tc.Title == ""
	case "type":
		return tc.Type == ""
	case "precondition":
		return tc.Precondition == ""
	case "steps":
		return tc.Steps == nil
	case "expected_result":
		return tc.ExpectedResult == ""
	case "test_data":
		return tc.TestData == nil
	case "priority":
		return tc.Priority == ""
	default:
		return false
	}
}
