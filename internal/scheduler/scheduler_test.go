package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"TradeTrends/internal/collector"
	"TradeTrends/internal/model"
	"TradeTrends/internal/pipeline"
	"TradeTrends/internal/recorder"
)

type fakeRunner struct {
	mu   sync.Mutex
	reqs []pipeline.Request
	err  error
}

func (f *fakeRunner) Run(_ context.Context, req pipeline.Request) (*pipeline.Report, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	sym := model.ResolvePreset(req.Symbol)
	return &pipeline.Report{Symbol: sym, Years: max(req.Years, 1)}, nil
}

type fakeSender struct {
	msgs []string
}

func (f *fakeSender) Send(_ context.Context, text string) error {
	f.msgs = append(f.msgs, text)
	return nil
}

type fakeNews struct {
	items []model.NewsItem
	err   error
}

func (f *fakeNews) Headlines(context.Context, string) ([]model.NewsItem, error) {
	return f.items, f.err
}

func newTestScheduler(r *fakeRunner, n *fakeNews, s *fakeSender) *Scheduler {
	return NewScheduler(context.Background(), r, n, collector.NewMemoryMemo(time.Hour), s,
		recorder.NewNoopRecorder(), []string{"RELIANCE.NS", "TCS.NS"})
}

func TestHandleCommand_Forecast(t *testing.T) {
	tests := []struct {
		cmd       string
		wantSym   string
		wantYears int
	}{
		{"/forecast TCS.NS", "TCS.NS", 0},
		{"/forecast tcs.ns 3", "tcs.ns", 3},
		{"/forecast Bajaj Finance 2", "Bajaj Finance", 2},
		{"/forecast@TradeTrendsBot INFY.NS", "INFY.NS", 0},
		{"/forecast", "", 0},
	}
	for _, tt := range tests {
		r := &fakeRunner{}
		s := newTestScheduler(r, &fakeNews{}, &fakeSender{})
		reply := s.HandleCommand(tt.cmd)
		if len(r.reqs) != 1 {
			t.Fatalf("%q: runs = %d", tt.cmd, len(r.reqs))
		}
		if r.reqs[0].Symbol != tt.wantSym || r.reqs[0].Years != tt.wantYears {
			t.Errorf("%q: request = %+v", tt.cmd, r.reqs[0])
		}
		if !strings.Contains(reply, "forecast") {
			t.Errorf("%q: reply = %s", tt.cmd, reply)
		}
	}
}

func TestHandleCommand_ForecastError(t *testing.T) {
	r := &fakeRunner{err: errors.Join(model.ErrInvalidSymbol, errors.New("NOPE"))}
	s := newTestScheduler(r, &fakeNews{}, &fakeSender{})
	if reply := s.HandleCommand("/forecast NOPE"); !strings.Contains(reply, "invalid_symbol") {
		t.Errorf("reply = %s", reply)
	}
}

func TestHandleCommand_News(t *testing.T) {
	s := newTestScheduler(&fakeRunner{}, &fakeNews{items: []model.NewsItem{{Title: "Deal signed"}}}, &fakeSender{})
	if reply := s.HandleCommand("/news Wipro"); !strings.Contains(reply, "WIPRO.NS") || !strings.Contains(reply, "Deal signed") {
		t.Errorf("reply = %s", reply)
	}
	if reply := s.HandleCommand("/news"); !strings.Contains(reply, "Usage") {
		t.Errorf("reply = %s", reply)
	}

	s.News = &fakeNews{err: model.ErrNewsFetchFailed}
	if reply := s.HandleCommand("/news TCS.NS"); !strings.Contains(reply, "Could not fetch news") {
		t.Errorf("reply = %s", reply)
	}
}

func TestHandleCommand_Misc(t *testing.T) {
	s := newTestScheduler(&fakeRunner{}, &fakeNews{}, &fakeSender{})
	if reply := s.HandleCommand("/presets"); !strings.Contains(reply, "RELIANCE.NS") {
		t.Errorf("presets = %s", reply)
	}
	if reply := s.HandleCommand("/runs"); reply != "No runs recorded yet." {
		t.Errorf("runs = %s", reply)
	}
	for _, cmd := range []string{"", "hello", "/unknown"} {
		if reply := s.HandleCommand(cmd); !strings.Contains(reply, "Available commands") {
			t.Errorf("%q: reply = %s", cmd, reply)
		}
	}
}

func TestHandleCommand_EscapesHTML(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"ampersand symbol", fmt.Errorf("M&M.NS: %w", model.ErrInvalidSymbol), "M&amp;M.NS"},
		{"inverted range", fmt.Errorf("2021-06-01 > 2021-05-01: %w", model.ErrInvalidRange), "2021-06-01 &gt; 2021-05-01"},
		{"angle brackets", fmt.Errorf("<nil> body: %w", model.ErrFetchFailed), "&lt;nil&gt; body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{}
			s := newTestScheduler(&fakeRunner{err: tt.err}, &fakeNews{}, sender)
			reply := s.HandleCommand("/forecast M&M.NS")
			if strings.ContainsAny(reply, "<>") || !strings.Contains(reply, tt.want) {
				t.Errorf("reply = %s, want escaped %s", reply, tt.want)
			}
			s.RunDigestNow()
			for _, msg := range sender.msgs {
				if strings.ContainsAny(msg, "<>") || !strings.Contains(msg, tt.want) {
					t.Errorf("digest = %s, want escaped %s", msg, tt.want)
				}
			}
		})
	}

	s := newTestScheduler(&fakeRunner{}, &fakeNews{err: model.ErrNewsFetchFailed}, &fakeSender{})
	if reply := s.HandleCommand("/news M&M.NS"); !strings.Contains(reply, "M&amp;M.NS") {
		t.Errorf("news reply = %s", reply)
	}
}

func TestDigestTask_SendsPerSymbol(t *testing.T) {
	r := &fakeRunner{}
	sender := &fakeSender{}
	s := newTestScheduler(r, &fakeNews{}, sender)
	s.RunDigestNow()

	if len(r.reqs) != 2 || len(sender.msgs) != 2 {
		t.Fatalf("runs=%d msgs=%d, want 2 each", len(r.reqs), len(sender.msgs))
	}
	if !strings.Contains(sender.msgs[1], "TCS.NS") {
		t.Errorf("second digest = %s", sender.msgs[1])
	}
}

func TestDigestTask_ReportsFailures(t *testing.T) {
	r := &fakeRunner{err: model.ErrFetchFailed}
	sender := &fakeSender{}
	s := newTestScheduler(r, &fakeNews{}, sender)
	s.RunDigestNow()
	if len(sender.msgs) != 2 || !strings.HasPrefix(sender.msgs[0], "❌ RELIANCE.NS") {
		t.Errorf("msgs = %v", sender.msgs)
	}
}

func TestRegisterAll(t *testing.T) {
	s := newTestScheduler(&fakeRunner{}, &fakeNews{}, nil)
	if err := s.RegisterAll("0 0 18 * * 1-5", "0 0 * * * *"); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	if n := len(s.Cron.Entries()); n != 2 {
		t.Errorf("entries = %d, want 2", n)
	}
	if err := s.RegisterAll("bogus", "0 0 * * * *"); err == nil {
		t.Error("expected error for invalid cron spec")
	}
}

func TestPurgeTask(t *testing.T) {
	memo := collector.NewMemoryMemo(time.Nanosecond)
	memo.Put("X", &model.PriceSeries{Symbol: "X"})
	time.Sleep(time.Millisecond)

	s := newTestScheduler(&fakeRunner{}, &fakeNews{}, nil)
	s.Memo = memo
	s.purgeTask()
	if memo.Len() != 0 {
		t.Errorf("memo len = %d, want 0", memo.Len())
	}
}
