package collector

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/guregu/null/v6"

	"TradeTrends/internal/model"
)

// MockFetcher returns controllable data for development and testing.
// With no fixed data it generates weekday bars around Price.
type MockFetcher struct {
	Price      float64
	DailyData  []model.OHLCV
	LatestData []model.OHLCV
	Err        error // returned by FetchDaily
	ProbeErr   error // returned by FetchLatest

	DailyCalls  atomic.Int32
	LatestCalls atomic.Int32
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDaily(_ context.Context, _ string, start, end time.Time) ([]model.OHLCV, error) {
	m.DailyCalls.Add(1)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	return GenerateMockBars(m.Price, start, end), nil
}

func (m *MockFetcher) FetchLatest(_ context.Context, _ string) ([]model.OHLCV, error) {
	m.LatestCalls.Add(1)
	if m.ProbeErr != nil {
		return nil, m.ProbeErr
	}
	if m.LatestData != nil {
		return m.LatestData, nil
	}
	if m.Price == 0 {
		return nil, fmt.Errorf("mock: %w", model.ErrNoData)
	}
	today := model.CalendarDate(time.Now())
	return GenerateMockBars(m.Price, today.AddDate(0, 0, -7), today.AddDate(0, 0, 1))[0:1], nil
}

// GenerateMockBars builds deterministic weekday bars in [start, end) with a
// slow upward drift and a yearly cycle.
func GenerateMockBars(basePrice float64, start, end time.Time) []model.OHLCV {
	var bars []model.OHLCV
	start, end = model.CalendarDate(start), model.CalendarDate(end)
	for d, i := start, 0; d.Before(end); d, i = d.AddDate(0, 0, 1), i+1 {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		p := basePrice * (1 + float64(i)*0.0005 + 0.05*math.Sin(2*math.Pi*float64(d.YearDay())/365.25))
		bars = append(bars, model.OHLCV{
			Time:   d,
			Open:   null.FloatFrom(p * 0.999),
			High:   null.FloatFrom(p * 1.005),
			Low:    null.FloatFrom(p * 0.995),
			Close:  null.FloatFrom(p),
			Volume: null.FloatFrom(1000000),
		})
	}
	return bars
}
