package testcase

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedInputType is returned when synthesis sees a variant outside
// the three recognized input types. Normalize never produces such a value;
// the check guards direct callers.
var ErrUnsupportedInputType = errors.New("unsupported input type")

// SpecialCharPayload is the fixed special-character value substituted into
// string fields for the api edge case.
const SpecialCharPayload = "!@#$%^&*()_+-=[]{}|;:,.<>?"

// invalidValuePlaceholder replaces numeric and boolean fields during type
// inversion.
const invalidValuePlaceholder = "invalid_value"

// actionKeywords is the ordered keyword list for user-story main-action
// extraction. First match wins; order changes downstream titles, so it is
// fixed.
var actionKeywords = []string{
	"login", "register", "create", "update", "delete",
	"submit", "save", "search", "view", "access",
}

// featureKeywords is the ordered keyword list for raw-text main-feature
// extraction.
var featureKeywords = []string{
	"authentication", "authorization", "validation",
	"processing", "display", "storage", "communication",
}

// Synthesize maps a normalized input and its base id to the four-section
// test-case set. Output is a pure function of its arguments: no randomness,
// no clock, no shared mutable state.
func Synthesize(n NormalizedInput, baseID string) (TestCaseSet, error) {
	switch v := n.(type) {
	case APIInput:
		return synthesizeAPI(v, baseID), nil
	case UserStoryInput:
		return synthesizeUserStory(v.Content, baseID), nil
	case RawTextInput:
		return synthesizeRawText(v.Content, baseID), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedInputType, n)
	}
}

// synthesizeAPI produces 1 positive, 2 negative, 2 boundary and 2 edge cases.
// The positive section intentionally stays below the validator's 3-case
// floor; the shortfall is surfaced through validation, never padded away.
func synthesizeAPI(in APIInput, baseID string) TestCaseSet {
	target := fmt.Sprintf("%s %s", in.Method, in.Endpoint)

	return TestCaseSet{
		SectionPositive: []TestCase{
			{
				ID:           baseID + "_POS_001",
				Title:        fmt.Sprintf("Verify successful %s request", target),
				Type:         SectionPositive,
				Precondition: fmt.Sprintf("API service is running and %s is reachable", in.Endpoint),
				Steps: []string{
					fmt.Sprintf("Prepare a valid request payload for %s", in.Endpoint),
					fmt.Sprintf("Send %s request to %s", in.Method, in.Endpoint),
					"Verify the response status code is 200",
					"Verify the response body is well-formed",
				},
				ExpectedResult: "Request succeeds with HTTP 200 and a well-formed response",
				TestData:       copyMap(in.Request),
				Priority:       PriorityHigh,
			},
		},
		SectionNegative: []TestCase{
			{
				ID:           baseID + "_NEG_001",
				Title:        fmt.Sprintf("Verify %s rejects a request with missing required fields", target),
				Type:         SectionNegative,
				Precondition: fmt.Sprintf("API service is running and %s is reachable", in.Endpoint),
				Steps: []string{
					"Prepare a request payload with all required fields omitted",
					fmt.Sprintf("Send %s request to %s", in.Method, in.Endpoint),
					"Verify the response status code is 400",
				},
				ExpectedResult: "Request is rejected with HTTP 400 and a descriptive error",
				TestData:       map[string]any{},
				Priority:       PriorityHigh,
			},
			{
				ID:           baseID + "_NEG_002",
				Title:        fmt.Sprintf("Verify %s rejects a request with wrong field types", target),
				Type:         SectionNegative,
				Precondition: fmt.Sprintf("API service is running and %s is reachable", in.Endpoint),
				Steps: []string{
					"Prepare a request payload with each field set to a wrong type",
					fmt.Sprintf("Send %s request to %s", in.Method, in.Endpoint),
					"Verify the response status code is 400",
				},
				ExpectedResult: "Request is rejected with HTTP 400 for every type-mismatched field",
				TestData:       invalidTestData(in.Request),
				Priority:       PriorityHigh,
			},
		},
		SectionBoundary: []TestCase{
			{
				ID:           baseID + "_BND_001",
				Title:        fmt.Sprintf("Verify %s handles maximum-length field values", target),
				Type:         SectionBoundary,
				Precondition: fmt.Sprintf("API service is running and %s is reachable", in.Endpoint),
				Steps: []string{
					fmt.Sprintf("Prepare a payload with every string field at %d characters and every number at %d", Assumptions.String.MaxLength, Assumptions.Number.Max),
					fmt.Sprintf("Send %s request to %s", in.Method, in.Endpoint),
					"Verify the response status code is 200",
				},
				ExpectedResult: "Request succeeds with HTTP 200 and maximum values are processed correctly",
				TestData:       boundaryTestData(in.Request, true),
				Priority:       PriorityMedium,
			},
			{
				ID:           baseID + "_BND_002",
				Title:        fmt.Sprintf("Verify %s handles minimum-length field values", target),
				Type:         SectionBoundary,
				Precondition: fmt.Sprintf("API service is running and %s is reachable", in.Endpoint),
				Steps: []string{
					fmt.Sprintf("Prepare a payload with every string field at %d character and every number at %d", Assumptions.String.MinLength, Assumptions.Number.Min),
					fmt.Sprintf("Send %s request to %s", in.Method, in.Endpoint),
					"Verify the response status code is 200",
				},
				ExpectedResult: "Request succeeds with HTTP 200 and minimum values are processed correctly",
				TestData:       boundaryTestData(in.Request, false),
				Priority:       PriorityMedium,
			},
		},
		SectionEdge: []TestCase{
			{
				ID:           baseID + "_EDG_001",
				Title:        fmt.Sprintf("Verify %s handles null values in all fields", target),
				Type:         SectionEdge,
				Precondition: fmt.Sprintf("API service is running and %s is reachable", in.Endpoint),
				Steps: []string{
					"Prepare a payload with every field set to null",
					fmt.Sprintf("Send %s request to %s", in.Method, in.Endpoint),
					"Verify the response status code is 200",
				},
				ExpectedResult: "Request succeeds with HTTP 200 and null values are handled gracefully",
				TestData:       nullTestData(in.Request),
				Priority:       PriorityLow,
			},
			{
				ID:           baseID + "_EDG_002",
				Title:        fmt.Sprintf("Verify %s handles special characters in string fields", target),
				Type:         SectionEdge,
				Precondition: fmt.Sprintf("API service is running and %s is reachable", in.Endpoint),
				Steps: []string{
					"Prepare a payload with every string field set to a special-character value",
					fmt.Sprintf("Send %s request to %s", in.Method, in.Endpoint),
					"Verify the response status code is 200",
				},
				ExpectedResult: "Request succeeds with HTTP 200 and special characters are handled correctly",
				TestData:       specialCharTestData(in.Request),
				Priority:       PriorityLow,
			},
		},
	}
}

// synthesizeUserStory produces one case per section keyed off the extracted
// main action.
func synthesizeUserStory(content, baseID string) TestCaseSet {
	action := extractKeyword(content, actionKeywords, "perform action")

	return TestCaseSet{
		SectionPositive: []TestCase{
			{
				ID:           baseID + "_POS_001",
				Title:        fmt.Sprintf("Verify user can successfully %s", action),
				Type:         SectionPositive,
				Precondition: "User has access to the application",
				Steps: []string{
					"Navigate to the relevant page",
					fmt.Sprintf("Attempt to %s with valid inputs", action),
					"Verify the operation completes successfully",
				},
				ExpectedResult: fmt.Sprintf("User is able to %s without errors", action),
				TestData:       map[string]any{"scenario": "happy_path", "action": action},
				Priority:       PriorityHigh,
			},
		},
		SectionNegative: []TestCase{
			{
				ID:           baseID + "_NEG_001",
				Title:        fmt.Sprintf("Verify %s fails gracefully with invalid input", action),
				Type:         SectionNegative,
				Precondition: "User has access to the application",
				Steps: []string{
					"Navigate to the relevant page",
					fmt.Sprintf("Attempt to %s with invalid or malformed inputs", action),
					"Verify a clear error message is shown",
				},
				ExpectedResult: "Operation is rejected and the user sees a descriptive error",
				TestData:       map[string]any{"scenario": "invalid_input", "action": action},
				Priority:       PriorityHigh,
			},
		},
		SectionBoundary: []TestCase{
			{
				ID:           baseID + "_BND_001",
				Title:        fmt.Sprintf("Verify %s at maximum input limits", action),
				Type:         SectionBoundary,
				Precondition: "User has access to the application",
				Steps: []string{
					"Navigate to the relevant page",
					fmt.Sprintf("Attempt to %s with every input at its maximum allowed length (%d characters)", action, Assumptions.String.MaxLength),
					"Verify the operation completes successfully",
				},
				ExpectedResult: "Maximum-length inputs are accepted and processed correctly",
				TestData:       map[string]any{"scenario": "max_limits", "action": action},
				Priority:       PriorityMedium,
			},
		},
		SectionEdge: []TestCase{
			{
				ID:           baseID + "_EDG_001",
				Title:        fmt.Sprintf("Verify %s under concurrent access", action),
				Type:         SectionEdge,
				Precondition: "Multiple user sessions are available",
				Steps: []string{
					fmt.Sprintf("Start the %s action from several sessions at the same time", action),
					"Complete the action in every session",
					"Verify each session observes a consistent result",
				},
				ExpectedResult: "Concurrent actors complete the action without data corruption or errors",
				TestData:       map[string]any{"scenario": "concurrent_access", "action": action},
				Priority:       PriorityLow,
			},
		},
	}
}

// synthesizeRawText produces one case per section keyed off the extracted
// main feature.
func synthesizeRawText(content, baseID string) TestCaseSet {
	feature := extractKeyword(content, featureKeywords, "feature")

	return TestCaseSet{
		SectionPositive: []TestCase{
			{
				ID:           baseID + "_POS_001",
				Title:        fmt.Sprintf("Verify basic %s functionality", feature),
				Type:         SectionPositive,
				Precondition: "System is deployed and reachable",
				Steps: []string{
					fmt.Sprintf("Exercise the %s functionality with typical inputs", feature),
					"Verify the system behaves as described in the requirement",
				},
				ExpectedResult: fmt.Sprintf("The %s functionality works as specified", feature),
				TestData:       map[string]any{"scenario": "basic_functionality", "feature": feature},
				Priority:       PriorityHigh,
			},
		},
		SectionNegative: []TestCase{
			{
				ID:           baseID + "_NEG_001",
				Title:        fmt.Sprintf("Verify %s error handling", feature),
				Type:         SectionNegative,
				Precondition: "System is deployed and reachable",
				Steps: []string{
					fmt.Sprintf("Exercise the %s functionality with invalid inputs", feature),
					"Verify the system reports a clear error",
					"Verify the system remains usable afterwards",
				},
				ExpectedResult: "Errors are reported clearly and the system stays stable",
				TestData:       map[string]any{"scenario": "error_handling", "feature": feature},
				Priority:       PriorityHigh,
			},
		},
		SectionBoundary: []TestCase{
			{
				ID:           baseID + "_BND_001",
				Title:        fmt.Sprintf("Verify %s at operational limits", feature),
				Type:         SectionBoundary,
				Precondition: "System is deployed and reachable",
				Steps: []string{
					fmt.Sprintf("Exercise the %s functionality at its documented limits", feature),
					"Verify behavior exactly at each limit",
					"Verify behavior just beyond each limit",
				},
				ExpectedResult: "Limits are enforced consistently at and beyond each bound",
				TestData:       map[string]any{"scenario": "boundary_testing", "feature": feature},
				Priority:       PriorityMedium,
			},
		},
		SectionEdge: []TestCase{
			{
				ID:           baseID + "_EDG_001",
				Title:        fmt.Sprintf("Verify %s under stress conditions", feature),
				Type:         SectionEdge,
				Precondition: "System is deployed and reachable",
				Steps: []string{
					fmt.Sprintf("Exercise the %s functionality under sustained heavy load", feature),
					"Verify the system keeps responding",
					"Verify no data is lost or corrupted",
				},
				ExpectedResult: "The system degrades gracefully under stress without data loss",
				TestData:       map[string]any{"scenario": "stress_testing", "feature": feature},
				Priority:       PriorityLow,
			},
		},
	}
}

// extractKeyword scans content case-insensitively for the first keyword in
// priority order, falling back to def.
func extractKeyword(content string, keywords []string, def string) string {
	lower := strings.ToLower(content)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return kw
		}
	}
	return def
}

// invalidTestData applies the type-inversion rule: strings become a number,
// numbers and booleans become a placeholder string. Nested values and other
// types pass through unchanged.
func invalidTestData(req map[string]any) map[string]any {
	out := make(map[string]any, len(req))
	for k, v := range req {
		switch v.(type) {
		case string:
			out[k] = 123
		case float64, float32, int, int64, int32:
			out[k] = invalidValuePlaceholder
		case bool:
			out[k] = invalidValuePlaceholder
		default:
			out[k] = v
		}
	}
	return out
}

// boundaryTestData substitutes each field with its maximum or minimum bound
// from the QA assumptions table.
func boundaryTestData(req map[string]any, max bool) map[string]any {
	out := make(map[string]any, len(req))
	for k, v := range req {
		switch v.(type) {
		case string:
			if max {
				out[k] = strings.Repeat("a", Assumptions.String.MaxLength)
			} else {
				out[k] = strings.Repeat("a", Assumptions.String.MinLength)
			}
		case float64, float32, int, int64, int32:
			if max {
				out[k] = Assumptions.Number.Max
			} else {
				out[k] = Assumptions.Number.Min
			}
		default:
			out[k] = v
		}
	}
	return out
}

// nullTestData sets every field to null regardless of its original type.
func nullTestData(req map[string]any) map[string]any {
	out := make(map[string]any, len(req))
	for k := range req {
		out[k] = nil
	}
	return out
}

// specialCharTestData replaces string fields with the special-character
// payload and leaves everything else unchanged.
func specialCharTestData(req map[string]any) map[string]any {
	out := make(map[string]any, len(req))
	for k, v := range req {
		if _, ok := v.(string); ok {
			out[k] = SpecialCharPayload
		} else {
			out[k] = v
		}
	}
	return out
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
