package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// OHLCV represents a single daily bar. Cells are null when the provider
// reports no value for that session.
type OHLCV struct {
	Time   time.Time  `json:"date"`
	Open   null.Float `json:"open"`
	High   null.Float `json:"high"`
	Low    null.Float `json:"low"`
	Close  null.Float `json:"close"`
	Volume null.Float `json:"volume"`
}

// PriceSeries is an ordered, date-unique sequence of daily bars for one symbol.
// A returned series is never mutated; filtering produces a new one.
type PriceSeries struct {
	Symbol    string    `json:"symbol"`
	Bars      []OHLCV   `json:"bars"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int { return len(s.Bars) }

// MinDate returns the first bar date, or the zero time for an empty series.
func (s *PriceSeries) MinDate() time.Time {
	if len(s.Bars) == 0 {
		return time.Time{}
	}
	return s.Bars[0].Time
}

// MaxDate returns the last bar date, or the zero time for an empty series.
func (s *PriceSeries) MaxDate() time.Time {
	if len(s.Bars) == 0 {
		return time.Time{}
	}
	return s.Bars[len(s.Bars)-1].Time
}

// DateRange is an inclusive calendar-date window.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Snapshot is the single-day "real-time" view of a symbol. It is fetched
// independently of the historical series and may differ from its last row.
type Snapshot struct {
	Symbol     string    `json:"symbol"`
	Bars       []OHLCV   `json:"bars"`
	Exchange   string    `json:"exchange"`
	MarketOpen bool      `json:"market_open"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// Summary holds descriptive statistics of a filtered window.
type Summary struct {
	Rows      int        `json:"rows"`
	First     float64    `json:"first"`
	Last      float64    `json:"last"`
	ChangePct float64    `json:"change_pct"`
	High      float64    `json:"high"`
	Low       float64    `json:"low"`
	SMA50     null.Float `json:"sma50"`
	SMA200    null.Float `json:"sma200"`
	RSI14     null.Float `json:"rsi14"`
}

// CalendarDate truncates t to midnight UTC of its calendar day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
