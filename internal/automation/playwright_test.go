package automation

import (
	"strings"
	"testing"

	"github.com/caseforge/caseforge/internal/testcase"
)

func apiSet(t *testing.T) testcase.TestCaseSet {
	t.Helper()
	set, err := testcase.Synthesize(testcase.APIInput{
		Endpoint: "/login",
		Method:   "POST",
		Request:  map[string]any{"username": "string"},
	}, "TC__LOGIN")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	return set
}

func TestGenerateDefaults(t *testing.T) {
	out, err := Generate(apiSet(t), Config{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out.Framework != "playwright" || out.Language != "typescript" {
		t.Errorf("defaults = %s/%s; want playwright/typescript", out.Framework, out.Language)
	}
	if len(out.Dependencies) != 1 || out.Dependencies[0] != "@playwright/test" {
		t.Errorf("dependencies = %v", out.Dependencies)
	}
	if !strings.Contains(out.Setup, "http://localhost:3000") {
		t.Errorf("setup missing default base URL: %q", out.Setup)
	}
}

func TestGeneratePerSectionSnippets(t *testing.T) {
	out, err := Generate(apiSet(t), Config{BaseURL: "https://qa.example.com"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(out.Sections[testcase.SectionPositive]) != 1 {
		t.Errorf("positive snippets = %d; want 1", len(out.Sections[testcase.SectionPositive]))
	}
	if len(out.Sections[testcase.SectionNegative]) != 2 {
		t.Errorf("negative snippets = %d; want 2", len(out.Sections[testcase.SectionNegative]))
	}
	if !strings.Contains(out.Setup, "https://qa.example.com") {
		t.Errorf("setup missing base URL: %q", out.Setup)
	}

	pos := out.Sections[testcase.SectionPositive][0]
	if pos.ID != "TC__LOGIN_POS_001" {
		t.Errorf("snippet id = %s", pos.ID)
	}
	if !strings.Contains(pos.Code, "await request.post('/login'") {
		t.Errorf("send step not mapped to request call:\n%s", pos.Code)
	}
	if !strings.Contains(pos.Code, "expect(response.status()).toBe(200);") {
		t.Errorf("status step not mapped to assertion:\n%s", pos.Code)
	}
	if !strings.Contains(pos.Code, "// Step 1:") {
		t.Errorf("steps must be kept as comments:\n%s", pos.Code)
	}
}

func TestGenerateNarrativeKeywords(t *testing.T) {
	set, err := testcase.Synthesize(testcase.UserStoryInput{
		Content: "As a user I want to login so that I can access dashboard",
	}, "TC_USER_WANT_LOGIN")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	out, err := Generate(set, Config{Language: "javascript"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out.Language != "javascript" {
		t.Errorf("language = %s", out.Language)
	}

	code := out.Sections[testcase.SectionPositive][0].Code
	if !strings.Contains(code, "await page.goto('/');") {
		t.Errorf("navigate step not mapped:\n%s", code)
	}
}

func TestGenerateUnsupportedFramework(t *testing.T) {
	if _, err := Generate(apiSet(t), Config{Framework: "cypress"}); err == nil {
		t.Error("expected error for unsupported framework")
	}
}

func TestGenerateUnsupportedLanguage(t *testing.T) {
	if _, err := Generate(apiSet(t), Config{Language: "cobol"}); err == nil {
		t.Error("expected error for unsupported language")
	}
}
