package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"TradeTrends/internal/calculator"
	"TradeTrends/internal/chart"
	"TradeTrends/internal/collector"
	"TradeTrends/internal/forecast"
	"TradeTrends/internal/model"
	"TradeTrends/internal/news"
	"TradeTrends/internal/recorder"
)

// TailRows is the number of trailing forecast rows shown in reports.
const TailRows = 5

// Request selects a symbol, an optional inclusive date window and a horizon.
type Request struct {
	Symbol string
	Start  time.Time
	End    time.Time
	Years  int
}

// Report is everything one dashboard refresh renders.
type Report struct {
	RunID         string                `json:"run_id"`
	Symbol        string                `json:"symbol"`
	Range         model.DateRange       `json:"range"`
	Bounds        model.DateRange       `json:"bounds"`
	Years         int                   `json:"years"`
	Series        *model.PriceSeries    `json:"series,omitempty"`
	Summary       *model.Summary        `json:"summary,omitempty"`
	Snapshot      *model.Snapshot       `json:"snapshot,omitempty"`
	Forecast      *model.ForecastResult `json:"forecast,omitempty"`
	ForecastTail  []model.ForecastPoint `json:"forecast_tail,omitempty"`
	Chart         *chart.Spec           `json:"chart,omitempty"`
	Components    *chart.Spec           `json:"components,omitempty"`
	ForecastError string                `json:"forecast_error,omitempty"`
	News          []model.NewsItem      `json:"news"`
	Warnings      []string              `json:"warnings"`
}

// Pipeline wires the fetch, filter, forecast, news and snapshot stages.
type Pipeline struct {
	Collector     *collector.Collector
	Adapter       *forecast.Adapter
	News          news.Source
	Recorder      recorder.Recorder
	DefaultSymbol string
	DefaultYears  int
	MaxYears      int
	NewsTimeout   time.Duration
}

// New creates a pipeline. A nil recorder disables the run journal.
func New(c *collector.Collector, a *forecast.Adapter, src news.Source, rec recorder.Recorder) *Pipeline {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Pipeline{
		Collector:     c,
		Adapter:       a,
		News:          src,
		Recorder:      rec,
		DefaultSymbol: model.DefaultSymbol,
		DefaultYears:  1,
		MaxYears:      4,
		NewsTimeout:   10 * time.Second,
	}
}

// Run executes one refresh. Hard failures (invalid symbol, no data, fetch
// failure, invalid range or horizon) return an error and no report. Soft
// failures are collected in Report.Warnings or Report.ForecastError.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Report, error) {
	years := req.Years
	if years == 0 {
		years = p.DefaultYears
	}
	if years < 1 || years > p.MaxYears {
		return nil, fmt.Errorf("%d years not in 1..%d: %w", years, p.MaxYears, model.ErrInvalidHorizon)
	}
	symbol := model.ResolvePreset(req.Symbol)
	if strings.TrimSpace(req.Symbol) == "" && p.DefaultSymbol != "" {
		symbol = model.NormalizeSymbol(p.DefaultSymbol)
	}

	rep := &Report{
		RunID:    uuid.NewString(),
		Symbol:   symbol,
		Years:    years,
		News:     []model.NewsItem{},
		Warnings: []string{},
	}

	series, err := p.Collector.Fetch(ctx, symbol, time.Time{}, time.Time{})
	if err != nil {
		p.record(rep, model.RunFailed, err)
		return nil, err
	}
	rep.Bounds = model.DateRange{Start: series.MinDate(), End: series.MaxDate()}
	rep.Range = rep.Bounds
	if !req.Start.IsZero() {
		rep.Range.Start = model.CalendarDate(req.Start)
	}
	if !req.End.IsZero() {
		rep.Range.End = model.CalendarDate(req.End)
	}

	filtered, err := calculator.FilterRange(series, rep.Range)
	if err != nil {
		if errors.Is(err, model.ErrEmptyRange) {
			rep.Warnings = append(rep.Warnings, err.Error())
			p.record(rep, model.RunEmptyRange, err)
			return rep, nil
		}
		p.record(rep, model.RunFailed, err)
		return nil, err
	}
	rep.Series = filtered
	if sum, err := calculator.Summarize(filtered); err == nil {
		rep.Summary = sum
	}

	p.branches(ctx, rep, filtered, years)
	if err := ctx.Err(); err != nil {
		p.record(rep, model.RunFailed, err)
		return nil, err
	}

	status := model.RunOK
	if rep.ForecastError != "" {
		status = model.RunForecastError
	}
	p.record(rep, status, nil)
	return rep, nil
}

// branches runs forecast+chart, news and snapshot concurrently. Each branch
// writes only its own report fields; warnings are merged after Wait.
func (p *Pipeline) branches(ctx context.Context, rep *Report, series *model.PriceSeries, years int) {
	var newsWarn, snapWarn string
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		frame := calculator.TrainingFrame(series)
		horizon := 0
		if len(frame) > 0 {
			horizon = forecast.HorizonDays(frame[len(frame)-1].DS, years)
		}
		res, err := p.Adapter.Forecast(gctx, frame, horizon)
		if err != nil {
			log.Printf("[WARN] forecast %s: %v", rep.Symbol, err)
			rep.ForecastError = err.Error()
			return nil
		}
		rep.Forecast, rep.ForecastTail = res, res.Tail(TailRows)
		rep.Chart = chart.Build(rep.Symbol, years, frame, res)
		rep.Components = chart.BuildComponents(rep.Symbol, res)
		return nil
	})

	if p.News != nil {
		g.Go(func() error {
			nctx, cancel := context.WithTimeout(gctx, p.NewsTimeout)
			defer cancel()
			items, err := p.News.Headlines(nctx, rep.Symbol)
			if err != nil {
				log.Printf("[WARN] news %s: %v", rep.Symbol, err)
				newsWarn = err.Error()
			}
			if items == nil {
				items = []model.NewsItem{}
			}
			rep.News = items
			return nil
		})
	}

	g.Go(func() error {
		snap, err := p.Collector.Snapshot(gctx, rep.Symbol)
		if err != nil {
			log.Printf("[WARN] snapshot %s: %v", rep.Symbol, err)
			snapWarn = "real-time data unavailable: " + err.Error()
			return nil
		}
		rep.Snapshot = snap
		return nil
	})

	_ = g.Wait()
	for _, w := range []string{newsWarn, snapWarn} {
		if w != "" {
			rep.Warnings = append(rep.Warnings, w)
		}
	}
}

func (p *Pipeline) record(rep *Report, status model.RunStatus, runErr error) {
	rec := &model.RunRecord{
		RunID:     rep.RunID,
		Symbol:    rep.Symbol,
		Start:     rep.Range.Start,
		End:       rep.Range.End,
		Years:     rep.Years,
		Status:    status,
		Warnings:  len(rep.Warnings),
		Error:     rep.ForecastError,
		CreatedAt: time.Now(),
	}
	if rep.Series != nil {
		rec.Rows = rep.Series.Len()
	}
	if rep.Forecast != nil {
		if last, ok := rep.Forecast.Last(); ok {
			rec.LastYHat = last.YHat
		}
	}
	if runErr != nil {
		rec.Error = runErr.Error()
	}
	if err := p.Recorder.RecordRun(rec); err != nil {
		log.Printf("[ERROR] record run %s: %v", rep.RunID, err)
	}
	log.Printf("[INFO] run %s %s %s rows=%d warnings=%d", rep.RunID, rep.Symbol, status, rec.Rows, rec.Warnings)
}
