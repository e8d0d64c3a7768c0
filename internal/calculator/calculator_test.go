package calculator

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/guregu/null/v6"

	"TradeTrends/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// tradingSeries returns weekday bars in [start, end] with closes 1, 2, 3...
func tradingSeries(start, end time.Time) *model.PriceSeries {
	s := &model.PriceSeries{Symbol: "AAPL"}
	n := 0.0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		n++
		s.Bars = append(s.Bars, model.OHLCV{
			Time:  d,
			Open:  null.FloatFrom(n),
			High:  null.FloatFrom(n + 0.5),
			Low:   null.FloatFrom(n - 0.5),
			Close: null.FloatFrom(n),
		})
	}
	return s
}

func TestFilterRange_Inclusive(t *testing.T) {
	s := tradingSeries(day(2019, 12, 20), day(2020, 1, 31))
	got, err := FilterRange(s, model.DateRange{Start: day(2020, 1, 1), End: day(2020, 1, 10)})
	if err != nil {
		t.Fatalf("FilterRange: %v", err)
	}
	// Jan 1-10 2020 has 8 weekdays; the generator does not model holidays.
	if got.Len() != 8 {
		t.Errorf("rows = %d, want 8", got.Len())
	}
	if !got.MinDate().Equal(day(2020, 1, 1)) || !got.MaxDate().Equal(day(2020, 1, 10)) {
		t.Errorf("bounds = %v..%v", got.MinDate(), got.MaxDate())
	}
	if s.Len() == got.Len() {
		t.Error("input series should be untouched and larger")
	}
}

func TestFilterRange_FullSpanRoundTrip(t *testing.T) {
	s := tradingSeries(day(2021, 1, 4), day(2021, 3, 31))
	got, err := FilterRange(s, model.DateRange{Start: s.MinDate(), End: s.MaxDate()})
	if err != nil {
		t.Fatalf("FilterRange: %v", err)
	}
	if got.Len() != s.Len() {
		t.Errorf("rows = %d, want %d", got.Len(), s.Len())
	}
}

func TestFilterRange_DefaultsToSeriesBounds(t *testing.T) {
	s := tradingSeries(day(2021, 1, 4), day(2021, 1, 29))
	got, err := FilterRange(s, model.DateRange{})
	if err != nil {
		t.Fatalf("FilterRange: %v", err)
	}
	if got.Len() != s.Len() {
		t.Errorf("rows = %d, want %d", got.Len(), s.Len())
	}
}

func TestFilterRange_Inverted(t *testing.T) {
	s := tradingSeries(day(2021, 1, 4), day(2021, 12, 31))
	_, err := FilterRange(s, model.DateRange{Start: day(2021, 6, 1), End: day(2021, 5, 1)})
	if !errors.Is(err, model.ErrInvalidRange) {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}
	if model.IsSoft(err) {
		t.Error("invalid range must be a hard error")
	}
}

func TestFilterRange_Empty(t *testing.T) {
	s := tradingSeries(day(2021, 1, 4), day(2021, 1, 29))
	// A weekend only.
	_, err := FilterRange(s, model.DateRange{Start: day(2021, 1, 9), End: day(2021, 1, 10)})
	if !errors.Is(err, model.ErrEmptyRange) {
		t.Fatalf("err = %v, want ErrEmptyRange", err)
	}
	if !model.IsSoft(err) {
		t.Error("empty range should be soft")
	}
}

func TestClampRange(t *testing.T) {
	s := tradingSeries(day(2021, 1, 4), day(2021, 1, 29))
	r := ClampRange(s, model.DateRange{Start: day(2015, 1, 1), End: day(2030, 1, 1)})
	if !r.Start.Equal(s.MinDate()) || !r.End.Equal(s.MaxDate()) {
		t.Errorf("clamped = %v..%v, want series bounds", r.Start, r.End)
	}
}

func TestTrainingFrame_DropsMissing(t *testing.T) {
	s := tradingSeries(day(2021, 1, 4), day(2021, 1, 8))
	s.Bars[1].Close = null.Float{}
	s.Bars[2].Close = null.FloatFrom(math.NaN())
	s.Bars[3].Close = null.FloatFrom(math.Inf(1))

	frame := TrainingFrame(s)
	if len(frame) != 2 {
		t.Fatalf("frame rows = %d, want 2", len(frame))
	}
	if frame[0].Y != 1 || frame[1].Y != 5 {
		t.Errorf("frame = %+v", frame)
	}
}

func TestSMA(t *testing.T) {
	v, err := SMA([]float64{1, 2, 3, 4}, 2)
	if err != nil || v != 3.5 {
		t.Errorf("SMA = %v, %v; want 3.5", v, err)
	}
	if _, err := SMA([]float64{1}, 2); err == nil {
		t.Error("expected error for short input")
	}
	if _, err := SMA([]float64{1}, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestRSI(t *testing.T) {
	rising := make([]float64, 30)
	for i := range rising {
		rising[i] = float64(i)
	}
	v, err := RSI(rising, 14)
	if err != nil || v != 100 {
		t.Errorf("RSI(rising) = %v, %v; want 100", v, err)
	}

	zigzag := make([]float64, 30)
	for i := range zigzag {
		zigzag[i] = float64(i % 2)
	}
	v, err = RSI(zigzag, 14)
	if err != nil {
		t.Fatalf("RSI: %v", err)
	}
	if v < 40 || v > 60 {
		t.Errorf("RSI(zigzag) = %.2f, want near 50", v)
	}
}

func TestSummarize(t *testing.T) {
	s := tradingSeries(day(2021, 1, 4), day(2021, 3, 31))
	sum, err := Summarize(s)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	n := float64(s.Len())
	if sum.First != 1 || sum.Last != n {
		t.Errorf("first/last = %v/%v, want 1/%v", sum.First, sum.Last, n)
	}
	if sum.High != n+0.5 || sum.Low != 0.5 {
		t.Errorf("high/low = %v/%v", sum.High, sum.Low)
	}
	if !sum.SMA50.Valid {
		t.Error("SMA50 should be set for a quarter of data")
	}
	if sum.SMA200.Valid {
		t.Error("SMA200 should be null for a short window")
	}
	if !sum.RSI14.Valid {
		t.Error("RSI14 should be set")
	}
}

func TestSummarize_NoCloses(t *testing.T) {
	s := &model.PriceSeries{Bars: []model.OHLCV{{Time: day(2021, 1, 4)}}}
	if _, err := Summarize(s); err == nil {
		t.Error("expected error when no closes are valid")
	}
}
