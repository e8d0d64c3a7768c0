package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"TradeTrends/internal/model"
)

// Collector fetches validated price series and real-time snapshots.
type Collector struct {
	Fetcher Fetcher
	Memo    Memo
	Epoch   time.Time
	Now     func() time.Time
}

// NewCollector creates a Collector. A nil memo disables memoization.
func NewCollector(fetcher Fetcher, memo Memo, epoch time.Time) *Collector {
	if memo == nil {
		memo = NoopMemo{}
	}
	return &Collector{Fetcher: fetcher, Memo: memo, Epoch: epoch, Now: time.Now}
}

// DefaultWindow returns the epoch..today window used when the caller gives no dates.
func (c *Collector) DefaultWindow() (start, end time.Time) {
	return model.CalendarDate(c.Epoch), model.CalendarDate(c.Now())
}

// Fetch probes the symbol with a one-day request and then loads daily bars
// for [start, end). Zero dates fall back to DefaultWindow. Only the default
// window is memoized.
func (c *Collector) Fetch(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	symbol = model.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("empty symbol: %w", model.ErrInvalidSymbol)
	}

	defStart, defEnd := c.DefaultWindow()
	if start.IsZero() {
		start = defStart
	}
	if end.IsZero() {
		end = defEnd
	}
	start, end = model.CalendarDate(start), model.CalendarDate(end)
	memoizable := start.Equal(defStart) && end.Equal(defEnd)

	if memoizable {
		if s, ok := c.Memo.Get(symbol); ok {
			return s, nil
		}
	}

	if err := c.probe(ctx, symbol); err != nil {
		return nil, err
	}

	bars, err := c.Fetcher.FetchDaily(ctx, symbol, start, end)
	if err != nil {
		if errors.Is(err, model.ErrNoData) {
			return nil, fmt.Errorf("%s: %w", symbol, model.ErrNoData)
		}
		return nil, fmt.Errorf("%w: %w", model.ErrFetchFailed, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, model.ErrNoData)
	}

	series := &model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: c.Now()}
	if memoizable {
		c.Memo.Put(symbol, series)
	}
	log.Printf("[INFO] fetched %d bars for %s from %s", len(bars), symbol, c.Fetcher.Name())
	return series, nil
}

func (c *Collector) probe(ctx context.Context, symbol string) error {
	bars, err := c.Fetcher.FetchLatest(ctx, symbol)
	if err != nil {
		if errors.Is(err, model.ErrNoData) {
			return fmt.Errorf("%s: %w", symbol, model.ErrInvalidSymbol)
		}
		return fmt.Errorf("%w: probe %s: %w", model.ErrFetchFailed, symbol, err)
	}
	if len(bars) == 0 {
		return fmt.Errorf("%s: %w", symbol, model.ErrInvalidSymbol)
	}
	return nil
}

// Snapshot performs an independent one-day fetch. It is not reconciled with
// any previously fetched series.
func (c *Collector) Snapshot(ctx context.Context, symbol string) (*model.Snapshot, error) {
	symbol = model.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("empty symbol: %w", model.ErrInvalidSymbol)
	}
	bars, err := c.Fetcher.FetchLatest(ctx, symbol)
	if err != nil {
		if errors.Is(err, model.ErrNoData) {
			return nil, fmt.Errorf("%s: %w", symbol, model.ErrInvalidSymbol)
		}
		return nil, fmt.Errorf("%w: snapshot %s: %w", model.ErrFetchFailed, symbol, err)
	}
	now := c.Now()
	session := SessionFor(symbol)
	return &model.Snapshot{
		Symbol:     symbol,
		Bars:       bars,
		Exchange:   session.MIC,
		MarketOpen: session.IsOpen(now),
		FetchedAt:  now,
	}, nil
}
