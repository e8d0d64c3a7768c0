package chart

import (
	"fmt"
	"time"

	grob "github.com/MetalBlueberry/go-plotly/generated/v2.34.0/graph_objects"
	"github.com/MetalBlueberry/go-plotly/pkg/types"

	"TradeTrends/internal/model"
)

type component struct {
	name  string
	color string
	value func(model.ForecastPoint) float64
}

var components = []component{
	{"trend", "orange", func(p model.ForecastPoint) float64 { return p.Trend }},
	{"yearly", "cyan", func(p model.ForecastPoint) float64 { return p.Yearly }},
	{"weekly", "magenta", func(p model.ForecastPoint) float64 { return p.Weekly }},
}

// BuildComponents draws each active forecast component (trend, yearly,
// weekly) in its own stacked subplot. Components that are zero everywhere
// were disabled for the fit and are left out.
func BuildComponents(symbol string, result *model.ForecastResult) *Spec {
	fig := &Spec{Layout: baseLayout(fmt.Sprintf("%s Forecast Components", symbol))}
	if result == nil {
		return fig
	}

	var active []component
	for _, c := range components {
		for _, p := range result.Points {
			if c.value(p) != 0 {
				active = append(active, c)
				break
			}
		}
	}
	if len(active) == 0 {
		return fig
	}

	ds := make([]time.Time, len(result.Points))
	for i, p := range result.Points {
		ds[i] = p.DS
	}

	height := 1.0 / float64(len(active))
	fig.Layout.Height = types.N(float64(250 * len(active)))
	for i, c := range active {
		y := make([]float64, len(result.Points))
		for j, p := range result.Points {
			y[j] = c.value(p)
		}
		// Subplots stack top-down.
		lo := 1 - float64(i+1)*height
		hi := lo + height*0.9
		xName, yName := axisNames(i + 1)

		tr := line(c.name, ds, y, c.color)
		tr.Xaxis, tr.Yaxis = types.S(xName), types.S(yName)
		fig.AddTraces(tr)

		xAxis := &grob.LayoutXaxis{Anchor: grob.LayoutXaxisAnchor(yName)}
		if i == len(active)-1 {
			xAxis.Title = &grob.LayoutXaxisTitle{Text: "Date"}
		}
		yAxis := &grob.LayoutYaxis{
			Title:  &grob.LayoutYaxisTitle{Text: types.S(c.name)},
			Domain: []float64{lo, hi},
			Anchor: grob.LayoutYaxisAnchor(xName),
		}
		setAxes(fig.Layout, i+1, xAxis, yAxis)
	}
	return fig
}

// axisNames returns the trace references for subplot n (1-based).
func axisNames(n int) (x, y string) {
	if n == 1 {
		return "x", "y"
	}
	return fmt.Sprintf("x%d", n), fmt.Sprintf("y%d", n)
}

// setAxes places the axis pair of subplot n (1-based) on the layout.
func setAxes(l *grob.Layout, n int, x *grob.LayoutXaxis, y *grob.LayoutYaxis) {
	switch n {
	case 1:
		l.Xaxis, l.Yaxis = x, y
	case 2:
		l.XAxis2, l.YAxis2 = x, y
	case 3:
		l.XAxis3, l.YAxis3 = x, y
	}
}
