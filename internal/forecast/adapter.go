package forecast

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"TradeTrends/internal/model"
)

// DaysPerYear converts a horizon in years to forecast periods.
const DaysPerYear = 365

// HorizonDays returns the number of daily periods for a horizon of years:
// years*365, extended by the leap days needed to reach the same calendar
// date years after last.
func HorizonDays(last time.Time, years int) int {
	if years <= 0 {
		return 0
	}
	n := years * DaysPerYear
	if cal := int(last.AddDate(years, 0, 0).Sub(last).Hours() / 24); cal > n {
		n = cal
	}
	return n
}

// Adapter prepares training frames for an Engine and shapes its output.
type Adapter struct {
	Engine        Engine
	IntervalWidth float64
}

// NewAdapter wraps an engine.
func NewAdapter(engine Engine, intervalWidth float64) *Adapter {
	return &Adapter{Engine: engine, IntervalWidth: intervalWidth}
}

// Forecast fits the engine on frame and predicts the history plus horizonDays
// daily periods after the last observation. Frames with fewer than two rows
// fail with model.ErrInsufficientData before the engine is touched; any
// engine failure is reported as model.ErrModelFitFailed.
func (a *Adapter) Forecast(ctx context.Context, frame model.TrainingFrame, horizonDays int) (*model.ForecastResult, error) {
	if horizonDays < 0 {
		return nil, fmt.Errorf("horizon %d: %w", horizonDays, model.ErrInvalidHorizon)
	}
	frame = normalizeFrame(frame)
	if len(frame) < 2 {
		return nil, fmt.Errorf("%d rows: %w", len(frame), model.ErrInsufficientData)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m, err := a.fit(frame)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrModelFitFailed, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds := FutureDates(frame, horizonDays)
	points, err := a.predict(m, ds)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrModelFitFailed, err)
	}
	if len(points) != len(ds) {
		return nil, fmt.Errorf("%w: engine returned %d points for %d timestamps",
			model.ErrModelFitFailed, len(points), len(ds))
	}

	return &model.ForecastResult{
		Points:        points,
		HistoryLen:    len(frame),
		HorizonDays:   horizonDays,
		IntervalWidth: a.IntervalWidth,
	}, nil
}

// fit converts engine panics into errors.
func (a *Adapter) fit(frame model.TrainingFrame) (m Model, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine panic: %v", r)
		}
	}()
	m, err = a.Engine.Fit(frame)
	if err == nil && m == nil {
		err = errors.New("engine returned no model")
	}
	return m, err
}

func (a *Adapter) predict(m Model, ds []time.Time) (points []model.ForecastPoint, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine panic: %v", r)
		}
	}()
	return m.Predict(ds)
}

// FutureDates returns the frame timestamps followed by periods daily
// timestamps after the last one.
func FutureDates(frame model.TrainingFrame, periods int) []time.Time {
	ds := make([]time.Time, 0, len(frame)+periods)
	for _, p := range frame {
		ds = append(ds, p.DS)
	}
	if len(frame) == 0 {
		return ds
	}
	last := frame[len(frame)-1].DS
	for i := 1; i <= periods; i++ {
		ds = append(ds, last.AddDate(0, 0, i))
	}
	return ds
}

// normalizeFrame returns a copy sorted by DS with one row per timestamp
// (the later row wins).
func normalizeFrame(frame model.TrainingFrame) model.TrainingFrame {
	out := make(model.TrainingFrame, len(frame))
	copy(out, frame)
	sort.SliceStable(out, func(i, j int) bool { return out[i].DS.Before(out[j].DS) })

	dedup := out[:0]
	for _, p := range out {
		if n := len(dedup); n > 0 && dedup[n-1].DS.Equal(p.DS) {
			dedup[n-1] = p
			continue
		}
		dedup = append(dedup, p)
	}
	return dedup
}
