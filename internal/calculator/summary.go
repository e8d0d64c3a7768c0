package calculator

import (
	"errors"
	"math"

	"github.com/guregu/null/v6"

	"TradeTrends/internal/model"
)

// Summarize computes descriptive statistics of a filtered series. Indicators
// that need a longer window than available are left null.
func Summarize(series *model.PriceSeries) (*model.Summary, error) {
	closes := Closes(TrainingFrame(series))
	if len(closes) == 0 {
		return nil, errors.New("no valid closes in series")
	}

	s := &model.Summary{
		Rows:  series.Len(),
		First: closes[0],
		Last:  closes[len(closes)-1],
		High:  math.Inf(-1),
		Low:   math.Inf(1),
	}
	if s.First != 0 {
		s.ChangePct = (s.Last - s.First) / s.First * 100
	}
	for _, b := range series.Bars {
		high, low := b.High, b.Low
		if !high.Valid {
			high = b.Close
		}
		if !low.Valid {
			low = b.Close
		}
		if high.Valid && high.Float64 > s.High {
			s.High = high.Float64
		}
		if low.Valid && low.Float64 < s.Low {
			s.Low = low.Float64
		}
	}

	if v, err := SMA(closes, 50); err == nil {
		s.SMA50 = null.FloatFrom(v)
	}
	if v, err := SMA(closes, 200); err == nil {
		s.SMA200 = null.FloatFrom(v)
	}
	if v, err := RSI(closes, 14); err == nil {
		s.RSI14 = null.FloatFrom(v)
	}
	return s, nil
}
