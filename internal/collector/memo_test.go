package collector

import (
	"testing"
	"time"

	"TradeTrends/internal/model"
)

func TestMemoryMemo_TTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemoryMemo(time.Hour)
	m.now = func() time.Time { return now }

	s := &model.PriceSeries{Symbol: "AAPL"}
	m.Put("AAPL", s)
	if got, ok := m.Get("AAPL"); !ok || got != s {
		t.Fatal("expected hit before expiry")
	}

	now = now.Add(2 * time.Hour)
	if _, ok := m.Get("AAPL"); ok {
		t.Error("expected miss after expiry")
	}
	if n := m.Purge(); n != 1 {
		t.Errorf("Purge removed %d, want 1", n)
	}
	if m.Len() != 0 {
		t.Errorf("Len = %d, want 0", m.Len())
	}
}

func TestMemoryMemo_WriteOnce(t *testing.T) {
	m := NewMemoryMemo(time.Hour)
	first := &model.PriceSeries{Symbol: "AAPL"}
	second := &model.PriceSeries{Symbol: "AAPL"}

	m.Put("AAPL", first)
	m.Put("AAPL", second)
	if got, _ := m.Get("AAPL"); got != first {
		t.Error("live entry was overwritten")
	}
	m.Put("MSFT", nil)
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1 (nil must not be stored)", m.Len())
	}
}

func TestNoopMemo(t *testing.T) {
	var m Memo = NoopMemo{}
	m.Put("AAPL", &model.PriceSeries{})
	if _, ok := m.Get("AAPL"); ok {
		t.Error("noop memo returned a hit")
	}
}
