package chart

import (
	"fmt"
	"time"

	grob "github.com/MetalBlueberry/go-plotly/generated/v2.34.0/graph_objects"
	"github.com/MetalBlueberry/go-plotly/pkg/types"

	"TradeTrends/internal/model"
)

// Spec is a plotly figure: {data, layout}.
type Spec = grob.Fig

// Trace names in assembly order.
const (
	TraceHistorical = "Historical"
	TraceForecast   = "Forecast"
	TraceUpper      = "Upper Bound"
	TraceLower      = "Lower Bound"
)

const (
	bandFill = "rgba(0, 255, 0, 0.2)"
	template = "plotly_dark"
)

// Title returns the figure title for a symbol and horizon.
func Title(symbol string, years int) string {
	return fmt.Sprintf("%s Forecast for %d Year(s)", symbol, years)
}

func line(name string, ds []time.Time, y []float64, color string) *grob.Scatter {
	return &grob.Scatter{
		Name: types.S(name),
		Mode: grob.ScatterModeLines,
		X:    types.DataArray(ds),
		Y:    types.DataArray(y),
		Line: &grob.ScatterLine{Color: types.C(color)},
	}
}

func baseLayout(title string) *grob.Layout {
	return &grob.Layout{
		Title:     &grob.LayoutTitle{Text: types.S(title)},
		Template:  template,
		Hovermode: grob.LayoutHovermodeXUnified,
		Margin:    &grob.LayoutMargin{L: types.N(20), R: types.N(20), T: types.N(60), B: types.N(20)},
	}
}

// Build assembles the forecast figure: historical closes, forecast mean, and
// the confidence band drawn as an invisible upper line with the lower line
// filled up to it. The lower bound must directly follow the upper bound for
// the fill to land on the band.
func Build(symbol string, years int, frame model.TrainingFrame, result *model.ForecastResult) *Spec {
	histX := make([]time.Time, len(frame))
	histY := make([]float64, len(frame))
	for i, p := range frame {
		histX[i], histY[i] = p.DS, p.Y
	}

	var points []model.ForecastPoint
	if result != nil {
		points = result.Points
	}
	n := len(points)
	ds := make([]time.Time, n)
	yhat, upper, lower := make([]float64, n), make([]float64, n), make([]float64, n)
	for i, p := range points {
		ds[i], yhat[i], upper[i], lower[i] = p.DS, p.YHat, p.YHatUpper, p.YHatLower
	}

	upperTrace := line(TraceUpper, ds, upper, "")
	upperTrace.Line = &grob.ScatterLine{Width: types.N(0)}
	upperTrace.Showlegend = types.B(false)

	lowerTrace := line(TraceLower, ds, lower, "")
	lowerTrace.Line = &grob.ScatterLine{Width: types.N(0)}
	lowerTrace.Fill = grob.ScatterFillTonexty
	lowerTrace.Fillcolor = bandFill
	lowerTrace.Showlegend = types.B(true)

	layout := baseLayout(Title(symbol, years))
	layout.Xaxis = &grob.LayoutXaxis{Title: &grob.LayoutXaxisTitle{Text: "Date"}}
	layout.Yaxis = &grob.LayoutYaxis{Title: &grob.LayoutYaxisTitle{Text: "Stock Price"}}
	layout.Legend = &grob.LayoutLegend{
		Orientation: grob.LayoutLegendOrientationH,
		Yanchor:     grob.LayoutLegendYanchorBottom,
		Y:           types.N(1.02),
		Xanchor:     grob.LayoutLegendXanchorRight,
		X:           types.N(1),
	}

	fig := &Spec{Layout: layout}
	fig.AddTraces(
		line(TraceHistorical, histX, histY, "blue"),
		line(TraceForecast, ds, yhat, "green"),
		upperTrace,
		lowerTrace,
	)
	return fig
}
