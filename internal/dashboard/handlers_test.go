package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/caseforge/caseforge/internal/store"
	"github.com/caseforge/caseforge/internal/testcase"
)

func testServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if err := st.InitSchema(); err != nil {
		t.Fatalf("initializing schema: %v", err)
	}

	s, err := New(Config{Addr: ":0", Store: st})
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}

	ts := httptest.NewServer(s.routes())
	t.Cleanup(ts.Close)
	return ts, st
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decoding %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestHandleStatus(t *testing.T) {
	ts, st := testServer(t)
	if _, err := st.SaveRun("inline", testcase.Generate("storage requirement")); err != nil {
		t.Fatal(err)
	}

	var status store.Status
	if code := getJSON(t, ts.URL+"/api/status", &status); code != http.StatusOK {
		t.Fatalf("status code = %d", code)
	}
	if status.Runs != 1 || status.Cases != 4 {
		t.Errorf("status = %+v; want 1 run, 4 cases", status)
	}
}

func TestHandleRunsAndCases(t *testing.T) {
	ts, st := testServer(t)
	run, err := st.SaveRun("inline", testcase.Generate(map[string]any{
		"endpoint": "/login", "method": "POST",
		"request": map[string]any{"username": "string"},
	}))
	if err != nil {
		t.Fatal(err)
	}

	var runs []store.Run
	if code := getJSON(t, ts.URL+"/api/runs", &runs); code != http.StatusOK {
		t.Fatalf("status code = %d", code)
	}
	if len(runs) != 1 || runs[0].ID != run.ID {
		t.Fatalf("runs = %+v", runs)
	}

	var got store.Run
	if code := getJSON(t, ts.URL+"/api/runs/"+run.ID, &got); code != http.StatusOK {
		t.Fatalf("status code = %d", code)
	}
	if got.BaseID != "TC__LOGIN" {
		t.Errorf("base id = %s", got.BaseID)
	}

	var set testcase.TestCaseSet
	if code := getJSON(t, ts.URL+"/api/runs/"+run.ID+"/cases", &set); code != http.StatusOK {
		t.Fatalf("status code = %d", code)
	}
	if set.TotalCases() != 7 {
		t.Errorf("cases = %d; want 7", set.TotalCases())
	}
}

func TestHandleRunNotFound(t *testing.T) {
	ts, _ := testServer(t)

	resp, err := http.Get(ts.URL + "/api/runs/run-unknown")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status code = %d; want 404", resp.StatusCode)
	}
}
