package main

import (
	"fmt"
	"log"

	"TradeTrends/internal/collector"
	"TradeTrends/internal/config"
	"TradeTrends/internal/forecast"
	"TradeTrends/internal/news"
	"TradeTrends/internal/pipeline"
	"TradeTrends/internal/recorder"
)

// app holds the wired components shared by the commands.
type app struct {
	cfg       *config.Config
	memo      collector.Memo
	collector *collector.Collector
	news      *news.Client
	recorder  recorder.Recorder
	pipeline  *pipeline.Pipeline
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func newApp(cfg *config.Config, withRecorder bool) (*app, error) {
	epoch, err := cfg.EpochTime()
	if err != nil {
		return nil, err
	}

	fetcher := collector.NewYahooFetcher(cfg.DataSource.BaseURL, cfg.Proxy, cfg.DataSource.Timeout)
	log.Printf("[INFO] data source: %s", fetcher.Name())

	var memo collector.Memo = collector.NoopMemo{}
	if !cfg.DataSource.DisableMemo && cfg.DataSource.MemoTTL > 0 {
		memo = collector.NewMemoryMemo(cfg.DataSource.MemoTTL)
	}
	col := collector.NewCollector(fetcher, memo, epoch)

	if cfg.News.APIKey == "" {
		log.Println("[WARN] NEWS_API_KEY not set, headlines will be unavailable")
	}
	nc := news.NewClient(cfg.News.BaseURL, cfg.News.APIKey,
		news.WithTimeout(cfg.News.Timeout), news.WithProxy(cfg.Proxy))
	nc.PageSize = cfg.News.PageSize
	nc.Language = cfg.News.Language

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if withRecorder && cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		} else {
			rec = sr
		}
	}

	engine := forecast.NewAdditiveEngine(forecast.Options{
		Changepoints:  cfg.Forecast.Changepoints,
		YearlyOrder:   forecast.DefaultOptions().YearlyOrder,
		WeeklyOrder:   forecast.DefaultOptions().WeeklyOrder,
		IntervalWidth: cfg.Forecast.IntervalWidth,
	})
	p := pipeline.New(col, forecast.NewAdapter(engine, cfg.Forecast.IntervalWidth), nc, rec)
	p.DefaultSymbol = cfg.DataSource.DefaultSymbol
	p.DefaultYears = cfg.Forecast.DefaultYears
	p.MaxYears = cfg.Forecast.MaxYears
	p.NewsTimeout = cfg.News.Timeout

	return &app{cfg: cfg, memo: memo, collector: col, news: nc, recorder: rec, pipeline: p}, nil
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		log.Printf("[WARN] close recorder: %v", err)
	}
}
