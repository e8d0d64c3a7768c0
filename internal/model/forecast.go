package model

import "time"

// FramePoint is one (ds, y) row handed to the forecast engine.
type FramePoint struct {
	DS time.Time `json:"ds"`
	Y  float64   `json:"y"`
}

// TrainingFrame is the two-column input of a forecast, ordered by DS.
type TrainingFrame []FramePoint

// ForecastPoint is the model output for one timestamp. Trend, Yearly and
// Weekly are the additive components; YHat is their sum.
type ForecastPoint struct {
	DS        time.Time `json:"ds"`
	YHat      float64   `json:"yhat"`
	YHatLower float64   `json:"yhat_lower"`
	YHatUpper float64   `json:"yhat_upper"`
	Trend     float64   `json:"trend"`
	Yearly    float64   `json:"yearly"`
	Weekly    float64   `json:"weekly"`
}

// ForecastResult covers the training span followed by HorizonDays future days.
type ForecastResult struct {
	Points        []ForecastPoint `json:"points"`
	HistoryLen    int             `json:"history_len"`
	HorizonDays   int             `json:"horizon_days"`
	IntervalWidth float64         `json:"interval_width"`
}

// Tail returns the last n points.
func (r *ForecastResult) Tail(n int) []ForecastPoint {
	if n <= 0 || len(r.Points) == 0 {
		return nil
	}
	if n > len(r.Points) {
		n = len(r.Points)
	}
	return r.Points[len(r.Points)-n:]
}

// Last returns the final forecast point and false if there is none.
func (r *ForecastResult) Last() (ForecastPoint, bool) {
	if len(r.Points) == 0 {
		return ForecastPoint{}, false
	}
	return r.Points[len(r.Points)-1], true
}
