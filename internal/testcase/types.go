// Package testcase implements the deterministic test-case generation pipeline:
// input normalization, base-id derivation, case synthesis and structural validation.
package testcase

// InputType identifies which variant of NormalizedInput is active.
type InputType string

const (
	InputAPI       InputType = "api"
	InputUserStory InputType = "user_story"
	InputRawText   InputType = "raw_text"
)

// NormalizedInput is the tagged union produced by Normalize. Exactly one
// variant exists per value; downstream synthesis dispatches on the type.
type NormalizedInput interface {
	InputType() InputType
}

// APIInput describes a structured API requirement (endpoint + method).
type APIInput struct {
	Endpoint string         `json:"endpoint"`
	Method   string         `json:"method"`
	Request  map[string]any `json:"request"`
	Response map[string]any `json:"response"`
}

// UserStoryInput carries free-form user-story text.
type UserStoryInput struct {
	Content string `json:"content"`
}

// RawTextInput carries any other free-form requirement text.
type RawTextInput struct {
	Content string `json:"content"`
}

func (APIInput) InputType() InputType       { return InputAPI }
func (UserStoryInput) InputType() InputType { return InputUserStory }
func (RawTextInput) InputType() InputType   { return InputRawText }

// Section is one of the four fixed test-case categories.
type Section string

const (
	SectionPositive Section = "positive"
	SectionNegative Section = "negative"
	SectionBoundary Section = "boundary"
	SectionEdge     Section = "edge"
)

// Sections lists all sections in their canonical order. Exporters and the
// validator iterate in this order so output is stable across runs.
var Sections = []Section{SectionPositive, SectionNegative, SectionBoundary, SectionEdge}

// Priority is the execution priority assigned to a generated case.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// TestCase is a single generated test case.
type TestCase struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Type           Section        `json:"type"`
	Precondition   string         `json:"precondition"`
	Steps          []string       `json:"steps"`
	ExpectedResult string         `json:"expected_result"`
	TestData       map[string]any `json:"test_data"`
	Priority       Priority       `json:"priority"`
}

// TestCaseSet maps each section to its ordered cases. A well-formed set has
// all four keys present; Validate reports sets that do not.
type TestCaseSet map[Section][]TestCase

// TotalCases returns the flattened case count across all sections.
func (s TestCaseSet) TotalCases() int {
	total := 0
	for _, sec := range Sections {
		total += len(s[sec])
	}
	return total
}

// BySection returns per-section case counts.
func (s TestCaseSet) BySection() map[Section]int {
	counts := make(map[Section]int, len(Sections))
	for _, sec := range Sections {
		counts[sec] = len(s[sec])
	}
	return counts
}

// ValidationResult reports structural violations found in a TestCaseSet.
// IsValid is true iff Errors is empty.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// Summary aggregates case counts for the tool-boundary result.
type Summary struct {
	TotalCases int             `json:"total_cases"`
	BySection  map[Section]int `json:"by_section"`
}

// GenerationResult is the structured result returned across the tool
// invocation boundary.
type GenerationResult struct {
	Success    bool             `json:"success"`
	InputType  InputType        `json:"input_type"`
	BaseID     string           `json:"base_id,omitempty"`
	Validation ValidationResult `json:"validation"`
	TestCases  TestCaseSet      `json:"test_cases,omitempty"`
	Summary    Summary          `json:"summary"`
	Error      string           `json:"error,omitempty"`
}
