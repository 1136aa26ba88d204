// Package automation renders generated test cases into automation-code
// snippets. Generation is keyword-based text substitution over case steps;
// the snippets are scaffolding for a human to finish, not runnable suites.
package automation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/caseforge/caseforge/internal/testcase"
)

// Config selects the output framework and its settings.
type Config struct {
	Framework string `json:"framework"`
	Language  string `json:"language"`
	BaseURL   string `json:"base_url"`
}

// Snippet is one generated test function.
type Snippet struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Code  string `json:"code"`
}

// Output carries per-section snippets plus shared setup and dependencies.
type Output struct {
	Framework    string                         `json:"framework"`
	Language     string                         `json:"language"`
	Setup        string                         `json:"setup"`
	Dependencies []string                       `json:"dependencies"`
	Sections     map[testcase.Section][]Snippet `json:"sections"`
}

var statusRe = regexp.MustCompile(`status code is (\d+)`)
var requestRe = regexp.MustCompile(`(?i)send ([A-Z]+) request to (\S+)`)

// Generate renders every case in the set. Only the playwright framework is
// supported; the language defaults to typescript.
func Generate(set testcase.TestCaseSet, cfg Config) (*Output, error) {
	framework := strings.ToLower(cfg.Framework)
	if framework == "" {
		framework = "playwright"
	}
	if framework != "playwright" {
		return nil, fmt.Errorf("unsupported automation framework: %s (supported: playwright)", cfg.Framework)
	}

	language := strings.ToLower(cfg.Language)
	switch language {
	case "":
		language = "typescript"
	case "typescript", "javascript":
	default:
		return nil, fmt.Errorf("unsupported language: %s (supported: typescript, javascript)", cfg.Language)
	}

	out := &Output{
		Framework:    framework,
		Language:     language,
		Setup:        setupSnippet(cfg.BaseURL),
		Dependencies: []string{"@playwright/test"},
		Sections:     make(map[testcase.Section][]Snippet, len(testcase.Sections)),
	}

	for _, section := range testcase.Sections {
		snippets := make([]Snippet, 0, len(set[section]))
		for _, tc := range set[section] {
			snippets = append(snippets, Snippet{
				ID:    tc.ID,
				Title: tc.Title,
				Code:  renderCase(tc),
			})
		}
		out.Sections[section] = snippets
	}
	return out, nil
}

func setupSnippet(baseURL string) string {
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	return strings.Join([]string{
		"import { test, expect } from '@playwright/test';",
		"",
		fmt.Sprintf("test.use({ baseURL: '%s' });", baseURL),
	}, "\n")
}

// renderCase turns one test case into a Playwright test function. Each step
// is kept as a comment; steps with a recognized keyword additionally emit a
// code line.
func renderCase(tc testcase.TestCase) string {
	var b strings.Builder
	fmt.Fprintf(&b, "test('%s: %s', async ({ page, request }) => {\n", tc.ID, escapeQuotes(tc.Title))
	fmt.Fprintf(&b, "  // Precondition: %s\n", tc.Precondition)

	for i, step := range tc.Steps {
		fmt.Fprintf(&b, "  // Step %d: %s\n", i+1, step)
		if line := stepToCode(step); line != "" {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}

	fmt.Fprintf(&b, "  // Expected: %s\n", tc.ExpectedResult)
	b.WriteString("});")
	return b.String()
}

// stepToCode maps a step onto a Playwright call by keyword, first match
// wins. Unrecognized steps produce no code line.
func stepToCode(step string) string {
	lower := strings.ToLower(step)

	if m := requestRe.FindStringSubmatch(step); m != nil {
		return fmt.Sprintf("const response = await request.%s('%s', { data: testData });", strings.ToLower(m[1]), m[2])
	}
	if m := statusRe.FindStringSubmatch(lower); m != nil {
		return fmt.Sprintf("expect(response.status()).toBe(%s);", m[1])
	}

	switch {
	case strings.Contains(lower, "navigate"):
		return "await page.goto('/');"
	case strings.Contains(lower, "click") || strings.Contains(lower, "submit"):
		return "await page.getByRole('button').click();"
	case strings.Contains(lower, "enter") || strings.Contains(lower, "fill"):
		return "await page.getByRole('textbox').fill(String(testData));"
	case strings.Contains(lower, "verify"):
		return "await expect(page).toHaveURL(/.*/);"
	default:
		return ""
	}
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}
