package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"TradeTrends/internal/model"
)

func openTemp(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRecorder: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	r := openTemp(t)
	base := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)

	runs := []model.RunRecord{
		{RunID: "a", Symbol: "TCS.NS", Start: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			End: time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC), Years: 1, Rows: 250,
			Status: model.RunOK, LastYHat: 3100.5, CreatedAt: base},
		{RunID: "b", Symbol: "INFY.NS", Years: 2, Status: model.RunEmptyRange, Warnings: 1,
			Error: "no data available", CreatedAt: base.Add(time.Minute)},
		{RunID: "c", Symbol: "SBIN.NS", Years: 1, Status: model.RunForecastError, CreatedAt: base.Add(2 * time.Minute)},
	}
	for i := range runs {
		if err := r.RecordRun(&runs[i]); err != nil {
			t.Fatalf("RecordRun(%s): %v", runs[i].RunID, err)
		}
	}

	got, err := r.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("runs = %d, want 2", len(got))
	}
	if got[0].RunID != "c" || got[1].RunID != "b" {
		t.Errorf("order = %s, %s, want c, b", got[0].RunID, got[1].RunID)
	}
	if got[1].Status != model.RunEmptyRange || got[1].Warnings != 1 || got[1].Error != "no data available" {
		t.Errorf("run b = %+v", got[1])
	}
	if !got[1].Start.IsZero() {
		t.Errorf("zero start should round-trip as zero, got %v", got[1].Start)
	}

	all, err := r.RecentRuns(0)
	if err != nil {
		t.Fatalf("RecentRuns(0): %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("runs = %d, want 3", len(all))
	}
	a := all[2]
	if a.Rows != 250 || a.LastYHat != 3100.5 || a.Start.Format(time.DateOnly) != "2020-01-01" {
		t.Errorf("run a = %+v", a)
	}
}

func TestSQLiteRecorder_DuplicateRunID(t *testing.T) {
	r := openTemp(t)
	rec := &model.RunRecord{RunID: "dup", Symbol: "X", Status: model.RunOK}
	if err := r.RecordRun(rec); err != nil {
		t.Fatalf("first RecordRun: %v", err)
	}
	if err := r.RecordRun(rec); err == nil {
		t.Error("expected unique constraint error for duplicate run id")
	}
}

func TestSQLiteRecorder_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	r, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := r.RecordRun(&model.RunRecord{RunID: "x", Symbol: "X", Status: model.RunOK}); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	r.Close()

	r2, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer r2.Close()
	got, err := r2.RecentRuns(10)
	if err != nil || len(got) != 1 {
		t.Fatalf("runs = %v, err = %v", got, err)
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	if err := r.RecordRun(&model.RunRecord{RunID: "x"}); err != nil {
		t.Fatal(err)
	}
	runs, err := r.RecentRuns(5)
	if err != nil || runs == nil || len(runs) != 0 {
		t.Errorf("runs = %v, err = %v", runs, err)
	}
}
