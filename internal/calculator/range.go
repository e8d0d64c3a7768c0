package calculator

import (
	"fmt"
	"time"

	"TradeTrends/internal/model"
)

// FilterRange returns the bars whose date falls inside the inclusive window.
// Zero Start or End default to the series bounds. An inverted window fails
// with model.ErrInvalidRange; a window without rows fails with the soft
// model.ErrEmptyRange.
func FilterRange(series *model.PriceSeries, r model.DateRange) (*model.PriceSeries, error) {
	r = withDefaults(series, r)
	if r.Start.After(r.End) {
		return nil, fmt.Errorf("%s > %s: %w",
			r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly), model.ErrInvalidRange)
	}

	out := &model.PriceSeries{Symbol: series.Symbol, FetchedAt: series.FetchedAt}
	for _, b := range series.Bars {
		d := model.CalendarDate(b.Time)
		if d.Before(r.Start) || d.After(r.End) {
			continue
		}
		out.Bars = append(out.Bars, b)
	}
	if len(out.Bars) == 0 {
		return nil, fmt.Errorf("%s to %s: %w",
			r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly), model.ErrEmptyRange)
	}
	return out, nil
}

// ClampRange limits a window to the series bounds, the way a date picker
// bounded by the fetched data would.
func ClampRange(series *model.PriceSeries, r model.DateRange) model.DateRange {
	r = withDefaults(series, r)
	lo, hi := model.CalendarDate(series.MinDate()), model.CalendarDate(series.MaxDate())
	if r.Start.Before(lo) {
		r.Start = lo
	}
	if r.Start.After(hi) {
		r.Start = hi
	}
	if r.End.After(hi) {
		r.End = hi
	}
	if r.End.Before(lo) {
		r.End = lo
	}
	return r
}

func withDefaults(series *model.PriceSeries, r model.DateRange) model.DateRange {
	if r.Start.IsZero() {
		r.Start = series.MinDate()
	}
	if r.End.IsZero() {
		r.End = series.MaxDate()
	}
	return model.DateRange{Start: model.CalendarDate(r.Start), End: model.CalendarDate(r.End)}
}
