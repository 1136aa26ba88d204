package testcase

import (
	"slices"
	"testing"
)

func validCase(id string, sec Section) TestCase {
	return TestCase{
		ID:             id,
		Title:          "title",
		Type:           sec,
		Precondition:   "precondition",
		Steps:          []string{"step one"},
		ExpectedResult: "expected",
		TestData:       map[string]any{},
		Priority:       PriorityMedium,
	}
}

func validSet() TestCaseSet {
	set := TestCaseSet{}
	for _, sec := range Sections {
		set[sec] = []TestCase{
			validCase("TC_1", sec),
			validCase("TC_2", sec),
			validCase("TC_3", sec),
		}
	}
	return set
}

func TestValidateConformantSet(t *testing.T) {
	result := Validate(validSet())
	if !result.IsValid {
		t.Errorf("expected valid set, got errors: %v", result.Errors)
	}
	if len(result.Errors) != 0 {
		t.Errorf("IsValid true requires empty errors, got %v", result.Errors)
	}
}

func TestValidateMissingSection(t *testing.T) {
	set := validSet()
	delete(set, SectionEdge)

	result := Validate(set)
	if result.IsValid {
		t.Fatal("expected invalid result")
	}
	if !slices.Contains(result.Errors, "Missing or invalid section: edge") {
		t.Errorf("missing section error not reported: %v", result.Errors)
	}
}

func TestValidateSectionBelowFloor(t *testing.T) {
	set := validSet()
	set[SectionNegative] = set[SectionNegative][:2]

	result := Validate(set)
	if !slices.Contains(result.Errors, "Section negative has less than 3 test cases") {
		t.Errorf("floor violation not reported: %v", result.Errors)
	}
}

func TestValidateMissingFields(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*TestCase)
	}{
		{"id", func(tc *TestCase) { tc.ID = "" }},
		{"title", func(tc *TestCase) { tc.Title = "" }},
		{"type", func(tc *TestCase) { tc.Type = "" }},
		{"precondition", func(tc *TestCase) { tc.Precondition = "" }},
		{"steps", func(tc *TestCase) { tc.Steps = nil }},
		{"expected_result", func(tc *TestCase) { tc.ExpectedResult = "" }},
		{"test_data", func(tc *TestCase) { tc.TestData = nil }},
		{"priority", func(tc *TestCase) { tc.Priority = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			set := validSet()
			tt.mutate(&set[SectionBoundary][1])

			result := Validate(set)
			want := "Section boundary, case 2: Missing field " + tt.field
			if !slices.Contains(result.Errors, want) {
				t.Errorf("missing %q error not reported: %v", tt.field, result.Errors)
			}
		})
	}
}

func TestValidateEmptySteps(t *testing.T) {
	set := validSet()
	set[SectionPositive][0].Steps = []string{}

	result := Validate(set)
	if !slices.Contains(result.Errors, "Section positive, case 1: Steps array is empty") {
		t.Errorf("empty steps not reported: %v", result.Errors)
	}
}

func TestValidateNilStepsReportsBoth(t *testing.T) {
	// A nil steps slice is both a missing field and an empty steps array,
	// matching the accumulate-everything policy.
	set := validSet()
	set[SectionEdge][2].Steps = nil

	result := Validate(set)
	if !slices.Contains(result.Errors, "Section edge, case 3: Missing field steps") {
		t.Errorf("missing steps field not reported: %v", result.Errors)
	}
	if !slices.Contains(result.Errors, "Section edge, case 3: Steps array is empty") {
		t.Errorf("empty steps not reported: %v", result.Errors)
	}
}

func TestValidateAccumulatesAllViolations(t *testing.T) {
	set := TestCaseSet{
		SectionPositive: {},
	}

	result := Validate(set)
	// positive below floor plus three missing sections.
	want := []string{
		"Section positive has less than 3 test cases",
		"Missing or invalid section: negative",
		"Missing or invalid section: boundary",
		"Missing or invalid section: edge",
	}
	for _, w := range want {
		if !slices.Contains(result.Errors, w) {
			t.Errorf("expected error %q in %v", w, result.Errors)
		}
	}
	if len(result.Errors) != len(want) {
		t.Errorf("error count = %d; want %d: %v", len(result.Errors), len(want), result.Errors)
	}
}
