package calculator

import (
	"math"

	"TradeTrends/internal/model"
)

// TrainingFrame converts closes into (ds, y) rows, dropping missing and
// non-finite values.
func TrainingFrame(series *model.PriceSeries) model.TrainingFrame {
	frame := make(model.TrainingFrame, 0, len(series.Bars))
	for _, b := range series.Bars {
		if !b.Close.Valid || math.IsNaN(b.Close.Float64) || math.IsInf(b.Close.Float64, 0) {
			continue
		}
		frame = append(frame, model.FramePoint{DS: b.Time, Y: b.Close.Float64})
	}
	return frame
}

// Closes extracts the valid closes of a frame.
func Closes(frame model.TrainingFrame) []float64 {
	out := make([]float64, len(frame))
	for i, p := range frame {
		out[i] = p.Y
	}
	return out
}
