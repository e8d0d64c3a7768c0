package forecast

import (
	"time"

	"TradeTrends/internal/model"
)

// Engine fits an additive time-series model to a training frame.
type Engine interface {
	Fit(frame model.TrainingFrame) (Model, error)
}

// Model is a fitted engine that can score arbitrary timestamps.
type Model interface {
	// Predict returns one point per timestamp, in the same order.
	Predict(ds []time.Time) ([]model.ForecastPoint, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(frame model.TrainingFrame) (Model, error)

func (f EngineFunc) Fit(frame model.TrainingFrame) (Model, error) { return f(frame) }
