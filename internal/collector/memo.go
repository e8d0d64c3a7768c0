package collector

import (
	"sync"
	"time"

	"TradeTrends/internal/model"
)

// Memo caches full-window series by symbol.
type Memo interface {
	Get(symbol string) (*model.PriceSeries, bool)
	Put(symbol string, series *model.PriceSeries)
	Purge() int
	Len() int
}

type memoEntry struct {
	series  *model.PriceSeries
	expires time.Time
}

// MemoryMemo is an in-process Memo with a fixed TTL per entry.
// An entry is stored once per lifetime and is never modified in place;
// a new value replaces it only after the previous one expired.
type MemoryMemo struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	entries map[string]memoEntry
}

// NewMemoryMemo creates a memo whose entries live for ttl.
func NewMemoryMemo(ttl time.Duration) *MemoryMemo {
	return &MemoryMemo{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoEntry),
	}
}

func (m *MemoryMemo) Get(symbol string) (*model.PriceSeries, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[symbol]
	if !ok || !m.now().Before(e.expires) {
		return nil, false
	}
	return e.series, true
}

func (m *MemoryMemo) Put(symbol string, series *model.PriceSeries) {
	if series == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if e, ok := m.entries[symbol]; ok && now.Before(e.expires) {
		return
	}
	m.entries[symbol] = memoEntry{series: series, expires: now.Add(m.ttl)}
}

// Purge drops expired entries and returns how many were removed.
func (m *MemoryMemo) Purge() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for k, e := range m.entries {
		if !now.Before(e.expires) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed
}

func (m *MemoryMemo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// NoopMemo never stores anything.
type NoopMemo struct{}

func (NoopMemo) Get(string) (*model.PriceSeries, bool) { return nil, false }
func (NoopMemo) Put(string, *model.PriceSeries)        {}
func (NoopMemo) Purge() int                            { return 0 }
func (NoopMemo) Len() int                              { return 0 }
