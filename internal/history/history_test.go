package history

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"raidcheck/internal/check"
	"raidcheck/pkg/types"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func resultAt(started time.Time, pass bool, findings ...types.Finding) *check.HostResult {
	return &check.HostResult{
		Started:  started,
		Finished: started.Add(time.Second),
		Pass:     pass,
		Controllers: []check.ControllerResult{
			{Index: 0, Pass: pass, Findings: findings},
		},
	}
}

func TestRecordAndListRuns(t *testing.T) {
	s := openStore(t)
	base := time.Date(2025, time.August, 30, 6, 0, 0, 0, time.UTC)

	if err := s.RecordRun("run-1", resultAt(base, true)); err != nil {
		t.Fatal(err)
	}
	failing := resultAt(base.Add(time.Hour), false,
		types.NewFinding(types.CategoryPD, "PD(62:0:9) state: 'Failed' not in ['onln', 'ugood', 'dhs', 'ghs']"))
	if err := s.RecordRun("run-2", failing); err != nil {
		t.Fatal(err)
	}

	runs, err := s.RecentRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	// newest first
	if runs[0].ID != "run-2" || runs[1].ID != "run-1" {
		t.Errorf("order = %q, %q", runs[0].ID, runs[1].ID)
	}
	if runs[0].Pass || !runs[1].Pass {
		t.Errorf("pass flags = %v, %v", runs[0].Pass, runs[1].Pass)
	}
	if runs[0].Findings != 1 || runs[0].Controllers != 1 {
		t.Errorf("counts = %d findings, %d controllers", runs[0].Findings, runs[0].Controllers)
	}
}

func TestRecentFindings(t *testing.T) {
	s := openStore(t)
	base := time.Date(2025, time.August, 30, 6, 0, 0, 0, time.UTC)

	failing := resultAt(base, false,
		types.NewFinding(types.CategoryController, "controller 0 status: 'Needs Attention' not in ['optimal']"),
		types.NewFinding(types.CategoryPD, "PD(62:0:9) state: 'Failed' not in ['onln', 'ugood', 'dhs', 'ghs']"))
	failing.TopologyFindings = []types.Finding{
		types.NewFinding(types.CategoryTopology, "no controllers found on this host"),
	}
	if err := s.RecordRun("run-1", failing); err != nil {
		t.Fatal(err)
	}

	findings, err := s.RecentFindings(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(findings) != 3 {
		t.Fatalf("expected 3 findings, got %d", len(findings))
	}
	// topology first with sentinel controller index, then insertion order
	if findings[0].Controller != -1 || findings[0].Category != types.CategoryTopology {
		t.Errorf("first = %+v", findings[0])
	}
	if findings[1].Category != types.CategoryController || findings[2].Category != types.CategoryPD {
		t.Errorf("order = %q, %q", findings[1].Category, findings[2].Category)
	}
	if findings[2].RunID != "run-1" || !findings[2].Started.Equal(base) {
		t.Errorf("run context = %+v", findings[2])
	}
}

func TestRecentRunsLimit(t *testing.T) {
	s := openStore(t)
	base := time.Date(2025, time.August, 30, 6, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("run-%d", i)
		if err := s.RecordRun(id, resultAt(base.Add(time.Duration(i)*time.Minute), true)); err != nil {
			t.Fatal(err)
		}
	}
	runs, err := s.RecentRuns(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Errorf("expected 3 runs, got %d", len(runs))
	}
}

func TestDuplicateRunID(t *testing.T) {
	s := openStore(t)
	base := time.Date(2025, time.August, 30, 6, 0, 0, 0, time.UTC)
	if err := s.RecordRun("run-1", resultAt(base, true)); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordRun("run-1", resultAt(base, true)); err == nil {
		t.Error("expected primary key violation")
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if s.Path() != path {
		t.Errorf("Path() = %q", s.Path())
	}
}
