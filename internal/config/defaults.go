package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultYahooURL       = "https://query1.finance.yahoo.com"
	DefaultEpoch          = "2018-01-01"
	DefaultSymbol         = "RELIANCE.NS"
	DefaultMemoTTL        = time.Hour
	DefaultFetchTimeout   = 30 * time.Second
	DefaultNewsURL        = "https://newsapi.org"
	DefaultNewsPageSize   = 5
	DefaultNewsLanguage   = "en"
	DefaultNewsTimeout    = 10 * time.Second
	DefaultYears          = 1
	DefaultMaxYears       = 4
	DefaultIntervalWidth  = 0.80
	DefaultChangepoints   = 25
	DefaultServerAddr     = ":8080"
	DefaultStreamInterval = 15 * time.Second
	DefaultDigestCron     = "0 0 18 * * 1-5"
	DefaultPurgeCron      = "0 0 * * * *"
)

// seedDefaults sets the fields where an explicit zero means something:
// memo_ttl 0 disables the memo and changepoints 0 fits a straight trend.
// It runs before the file is decoded, so only absent keys keep the default.
func (c *Config) seedDefaults() {
	c.DataSource.MemoTTL = DefaultMemoTTL
	c.Forecast.Changepoints = DefaultChangepoints
}

func (c *Config) applyDefaults() {
	if c.DataSource.BaseURL == "" {
		c.DataSource.BaseURL = DefaultYahooURL
	}
	if c.DataSource.Epoch == "" {
		c.DataSource.Epoch = DefaultEpoch
	}
	if c.DataSource.DefaultSymbol == "" {
		c.DataSource.DefaultSymbol = DefaultSymbol
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = DefaultFetchTimeout
	}

	if c.News.BaseURL == "" {
		c.News.BaseURL = DefaultNewsURL
	}
	if c.News.PageSize == 0 {
		c.News.PageSize = DefaultNewsPageSize
	}
	if c.News.Language == "" {
		c.News.Language = DefaultNewsLanguage
	}
	if c.News.Timeout == 0 {
		c.News.Timeout = DefaultNewsTimeout
	}

	if c.Forecast.DefaultYears == 0 {
		c.Forecast.DefaultYears = DefaultYears
	}
	if c.Forecast.MaxYears == 0 {
		c.Forecast.MaxYears = DefaultMaxYears
	}
	if c.Forecast.IntervalWidth == 0 {
		c.Forecast.IntervalWidth = DefaultIntervalWidth
	}

	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Server.StreamInterval == 0 {
		c.Server.StreamInterval = DefaultStreamInterval
	}

	if c.Schedule.DigestCron == "" {
		c.Schedule.DigestCron = DefaultDigestCron
	}
	if c.Schedule.PurgeCron == "" {
		c.Schedule.PurgeCron = DefaultPurgeCron
	}
	if len(c.Watchlist) == 0 {
		c.Watchlist = []string{c.DataSource.DefaultSymbol}
	}
}
