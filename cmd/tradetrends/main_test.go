package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/guregu/null/v6"

	"TradeTrends/internal/collector"
	"TradeTrends/internal/config"
	"TradeTrends/internal/model"
	"TradeTrends/internal/pipeline"
)

func TestParseFlagDate(t *testing.T) {
	if d, err := parseFlagDate("start", ""); err != nil || !d.IsZero() {
		t.Errorf("empty = %v, %v", d, err)
	}
	d, err := parseFlagDate("start", "2021-02-03")
	if err != nil || !d.Equal(time.Date(2021, 2, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("parsed = %v, %v", d, err)
	}
	if _, err := parseFlagDate("end", "03/02/2021"); err == nil || !strings.Contains(err.Error(), "--end") {
		t.Errorf("err = %v", err)
	}
}

func TestPrintReport(t *testing.T) {
	d := time.Date(2024, 6, 27, 0, 0, 0, 0, time.UTC)
	rep := &pipeline.Report{
		RunID:   "r1",
		Symbol:  "TCS.NS",
		Years:   1,
		Range:   model.DateRange{Start: d.AddDate(0, -1, 0), End: d},
		Summary: &model.Summary{Rows: 20, First: 100, Last: 110, ChangePct: 10, High: 112, Low: 99},
		Snapshot: &model.Snapshot{Exchange: "xnse", Bars: []model.OHLCV{
			{Time: d, Close: null.FloatFrom(111)},
		}},
		ForecastTail: []model.ForecastPoint{{DS: d.AddDate(1, 0, 0), YHat: 130, YHatLower: 120, YHatUpper: 140}},
		News:         []model.NewsItem{{Title: "Results", SourceName: "Mint", URL: "https://x"}},
		Warnings:     []string{"slow news"},
	}
	var buf bytes.Buffer
	printReport(&buf, rep)
	out := buf.String()
	for _, want := range []string{
		"TCS.NS  2024-05-27 → 2024-06-27", "change +10.00%", "close 111.00  volume -",
		"2025-06-27  130.00", "Results (Mint)", "warning: slow news",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintReport_ForecastError(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, &pipeline.Report{Symbol: "X", ForecastError: "not enough data"})
	if !strings.Contains(buf.String(), "Forecast unavailable: not enough data") {
		t.Errorf("output = %s", buf.String())
	}
}

func TestNewApp_MemoTTL(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	a, err := newApp(cfg, false)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	if _, ok := a.memo.(*collector.MemoryMemo); !ok {
		t.Errorf("default memo = %T, want *collector.MemoryMemo", a.memo)
	}

	cfg.DataSource.MemoTTL = 0
	if a, err = newApp(cfg, false); err != nil {
		t.Fatalf("newApp: %v", err)
	}
	if _, ok := a.memo.(collector.NoopMemo); !ok {
		t.Errorf("memo with zero ttl = %T, want collector.NoopMemo", a.memo)
	}
}
