package forecast

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"TradeTrends/internal/model"
)

const (
	secondsPerDay = 86400.0
	yearDays      = 365.25
	weekDays      = 7.0
)

// Options configures the additive engine.
type Options struct {
	Changepoints     int     // potential trend changepoints
	ChangepointRange float64 // share of history in which changepoints are placed
	ChangepointPrior float64 // ridge penalty on changepoint deltas
	SeasonalityPrior float64 // ridge penalty on Fourier coefficients
	YearlyOrder      int
	WeeklyOrder      int
	IntervalWidth    float64
}

// DefaultOptions mirrors the usual defaults of additive trend+seasonality models.
func DefaultOptions() Options {
	return Options{
		Changepoints:     25,
		ChangepointRange: 0.8,
		ChangepointPrior: 1.0,
		SeasonalityPrior: 0.01,
		YearlyOrder:      10,
		WeeklyOrder:      3,
		IntervalWidth:    0.80,
	}
}

// AdditiveEngine fits y(t) = trend(t) + yearly(t) + weekly(t) by penalized
// least squares. The trend is piecewise linear with hinge changepoints;
// seasonalities are Fourier series.
type AdditiveEngine struct {
	Opts Options
}

// NewAdditiveEngine creates an engine, filling zero options with defaults.
func NewAdditiveEngine(opts Options) *AdditiveEngine {
	def := DefaultOptions()
	if opts.ChangepointRange <= 0 || opts.ChangepointRange > 1 {
		opts.ChangepointRange = def.ChangepointRange
	}
	if opts.ChangepointPrior <= 0 {
		opts.ChangepointPrior = def.ChangepointPrior
	}
	if opts.SeasonalityPrior <= 0 {
		opts.SeasonalityPrior = def.SeasonalityPrior
	}
	if opts.IntervalWidth <= 0 || opts.IntervalWidth >= 1 {
		opts.IntervalWidth = def.IntervalWidth
	}
	return &AdditiveEngine{Opts: opts}
}

// design describes the column layout shared by fit and predict.
type design struct {
	origin       time.Time
	spanDays     float64
	changepoints []float64 // in scaled time
	yearlyOrder  int
	weeklyOrder  int
}

func (d *design) cols() int {
	return 2 + len(d.changepoints) + 2*d.yearlyOrder + 2*d.weeklyOrder
}

func (d *design) scaledTime(ds time.Time) float64 {
	return ds.Sub(d.origin).Seconds() / secondsPerDay / d.spanDays
}

// row fills dst with the features of ds and returns the column offsets
// where the yearly and weekly blocks start.
func (d *design) row(ds time.Time, dst []float64) (yearlyAt, weeklyAt int) {
	t := d.scaledTime(ds)
	dst[0] = 1
	dst[1] = t
	i := 2
	for _, c := range d.changepoints {
		dst[i] = math.Max(0, t-c)
		i++
	}

	abs := float64(ds.Unix()) / secondsPerDay
	yearlyAt = i
	for k := 1; k <= d.yearlyOrder; k++ {
		x := 2 * math.Pi * float64(k) * abs / yearDays
		dst[i], dst[i+1] = math.Sin(x), math.Cos(x)
		i += 2
	}
	weeklyAt = i
	for k := 1; k <= d.weeklyOrder; k++ {
		x := 2 * math.Pi * float64(k) * abs / weekDays
		dst[i], dst[i+1] = math.Sin(x), math.Cos(x)
		i += 2
	}
	return yearlyAt, weeklyAt
}

// Fit estimates the model. Seasonal blocks are only used when the history
// covers two full periods, and the design shrinks until it has no more
// columns than rows.
func (e *AdditiveEngine) Fit(frame model.TrainingFrame) (Model, error) {
	n := len(frame)
	if n < 2 {
		return nil, fmt.Errorf("need at least 2 rows, got %d", n)
	}
	first, last := frame[0].DS, frame[n-1].DS
	spanDays := last.Sub(first).Hours() / 24
	if spanDays <= 0 {
		return nil, errors.New("training frame spans no time")
	}

	d := &design{origin: first, spanDays: spanDays}
	if spanDays >= 2*yearDays {
		d.yearlyOrder = e.Opts.YearlyOrder
	}
	if spanDays >= 2*weekDays {
		d.weeklyOrder = e.Opts.WeeklyOrder
	}
	nCP := e.Opts.Changepoints
	for d.cols()-len(d.changepoints)+nCP > n {
		switch {
		case d.weeklyOrder > 0:
			d.weeklyOrder = 0
		case d.yearlyOrder > 0:
			d.yearlyOrder = 0
		default:
			nCP = n - 2
		}
	}
	d.changepoints = placeChangepoints(frame, d, nCP, e.Opts.ChangepointRange)

	yScale := 0.0
	for _, p := range frame {
		yScale = math.Max(yScale, math.Abs(p.Y))
	}
	if yScale == 0 {
		yScale = 1
	}

	p := d.cols()
	x := mat.NewDense(n, p, nil)
	y := mat.NewVecDense(n, nil)
	buf := make([]float64, p)
	for i, pt := range frame {
		d.row(pt.DS, buf)
		x.SetRow(i, buf)
		y.SetVec(i, pt.Y/yScale)
	}

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	for j := 0; j < p; j++ {
		penalty := 1e-9
		switch {
		case j >= 2 && j < 2+len(d.changepoints):
			penalty = e.Opts.ChangepointPrior
		case j >= 2+len(d.changepoints):
			penalty = e.Opts.SeasonalityPrior
		}
		xtx.Set(j, j, xtx.At(j, j)+penalty)
	}
	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	var beta mat.VecDense
	if err := beta.SolveVec(&xtx, &xty); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("solve normal equations: %w", err)
		}
	}
	coef := beta.RawVector().Data
	for _, c := range coef {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, errors.New("non-finite model coefficients")
		}
	}

	resid := make([]float64, n)
	for i := range frame {
		resid[i] = y.AtVec(i) - floats.Dot(x.RawRowView(i), coef)
	}
	sigma := 0.0
	if n > 2 {
		sigma = stat.StdDev(resid, nil)
	}

	q := 0.5 + e.Opts.IntervalWidth/2
	return &additiveModel{
		design: d,
		coef:   coef,
		yScale: yScale,
		sigma:  sigma,
		z:      distuv.UnitNormal.Quantile(q),
		last:   last,
		n:      n,
	}, nil
}

// placeChangepoints spreads count changepoints uniformly over the rows in the
// first rangeShare of history, excluding the first row.
func placeChangepoints(frame model.TrainingFrame, d *design, count int, rangeShare float64) []float64 {
	if count <= 0 {
		return nil
	}
	hist := int(math.Floor(float64(len(frame)-1) * rangeShare))
	if hist < 1 {
		return nil
	}
	if count > hist {
		count = hist
	}
	idx := make([]float64, count+1)
	floats.Span(idx, 0, float64(hist))

	cps := make([]float64, 0, count)
	seen := make(map[int]bool, count)
	for _, f := range idx[1:] {
		i := int(math.Round(f))
		if seen[i] {
			continue
		}
		seen[i] = true
		cps = append(cps, d.scaledTime(frame[i].DS))
	}
	return cps
}

type additiveModel struct {
	design *design
	coef   []float64
	yScale float64
	sigma  float64
	z      float64
	last   time.Time
	n      int
}

func (m *additiveModel) Predict(ds []time.Time) ([]model.ForecastPoint, error) {
	d := m.design
	p := d.cols()
	buf := make([]float64, p)
	out := make([]model.ForecastPoint, len(ds))

	for i, t := range ds {
		yearlyAt, weeklyAt := d.row(t, buf)
		trend := floats.Dot(buf[:yearlyAt], m.coef[:yearlyAt]) * m.yScale
		yearly := floats.Dot(buf[yearlyAt:weeklyAt], m.coef[yearlyAt:weeklyAt]) * m.yScale
		weekly := floats.Dot(buf[weeklyAt:], m.coef[weeklyAt:]) * m.yScale
		yhat := trend + yearly + weekly

		// Uncertainty grows with distance past the last observation.
		ahead := math.Max(0, t.Sub(m.last).Hours()/24)
		half := m.z * m.sigma * m.yScale * math.Sqrt(1+ahead/float64(m.n))

		if math.IsNaN(yhat) || math.IsInf(yhat, 0) || math.IsNaN(half) {
			return nil, fmt.Errorf("non-finite prediction at %s", t.Format(time.DateOnly))
		}
		out[i] = model.ForecastPoint{
			DS:        t,
			YHat:      yhat,
			YHatLower: yhat - half,
			YHatUpper: yhat + half,
			Trend:     trend,
			Yearly:    yearly,
			Weekly:    weekly,
		}
	}
	return out, nil
}
