package store

import (
	"path/filepath"
	"testing"

	"github.com/caseforge/caseforge/internal/testcase"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()

	s, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.InitSchema(); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}
	return s
}

func TestSaveAndLoadRun(t *testing.T) {
	s := openTestStore(t)

	result := testcase.Generate(map[string]any{
		"endpoint": "/login",
		"method":   "POST",
		"request":  map[string]any{"username": "string", "password": "string"},
	})

	run, err := s.SaveRun("inline", result)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if run.ID == "" {
		t.Fatal("expected a run id")
	}
	if run.TotalCases != 7 {
		t.Errorf("total cases = %d; want 7", run.TotalCases)
	}

	loaded, err := s.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if loaded.InputType != testcase.InputAPI {
		t.Errorf("input type = %s; want api", loaded.InputType)
	}
	if loaded.BaseID != "TC__LOGIN" {
		t.Errorf("base id = %s; want TC__LOGIN", loaded.BaseID)
	}
	if loaded.IsValid {
		t.Error("api run must record the validation shortfall")
	}
}

func TestCasesForRunRoundTrip(t *testing.T) {
	s := openTestStore(t)

	result := testcase.Generate("As a user I want to login so that I can access dashboard")
	run, err := s.SaveRun("inline", result)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	set, err := s.CasesForRun(run.ID)
	if err != nil {
		t.Fatalf("CasesForRun: %v", err)
	}

	if set.TotalCases() != 4 {
		t.Errorf("total cases = %d; want 4", set.TotalCases())
	}
	pos := set[testcase.SectionPositive]
	if len(pos) != 1 {
		t.Fatalf("positive cases = %d; want 1", len(pos))
	}
	if pos[0].ID != "TC_USER_WANT_LOGIN_POS_001" {
		t.Errorf("case id = %s", pos[0].ID)
	}
	if len(pos[0].Steps) == 0 {
		t.Error("steps must round-trip through storage")
	}
	if pos[0].TestData["scenario"] != "happy_path" {
		t.Errorf("test data scenario = %v; want happy_path", pos[0].TestData["scenario"])
	}
	if pos[0].Priority != testcase.PriorityHigh {
		t.Errorf("priority = %s; want High", pos[0].Priority)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	s := openTestStore(t)

	first := testcase.Generate("authentication requirement")
	second := testcase.Generate("storage requirement")
	if _, err := s.SaveRun("a", first); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveRun("b", second); err != nil {
		t.Fatal(err)
	}

	runs, err := s.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d; want 2", len(runs))
	}
}

func TestGetStatus(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.SaveRun("a", testcase.Generate("raw requirement text")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveRun("b", testcase.Generate(map[string]any{"endpoint": "/x", "method": "GET"})); err != nil {
		t.Fatal(err)
	}

	status, err := s.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.Runs != 2 {
		t.Errorf("runs = %d; want 2", status.Runs)
	}
	if status.Cases != 11 {
		t.Errorf("cases = %d; want 11 (4 raw_text + 7 api)", status.Cases)
	}
	if status.APIRuns != 1 || status.RawRuns != 1 {
		t.Errorf("type counts = %+v", status)
	}
}

func TestGetRunMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetRun("run-missing"); err == nil {
		t.Error("expected error for unknown run")
	}
}
