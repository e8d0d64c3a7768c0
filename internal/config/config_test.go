package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DataSource.Epoch != DefaultEpoch {
		t.Errorf("Epoch = %q, want %q", cfg.DataSource.Epoch, DefaultEpoch)
	}
	if cfg.News.PageSize != 5 {
		t.Errorf("News.PageSize = %d, want 5", cfg.News.PageSize)
	}
	if cfg.Forecast.MaxYears != 4 {
		t.Errorf("Forecast.MaxYears = %d, want 4", cfg.Forecast.MaxYears)
	}
	if len(cfg.Watchlist) != 1 || cfg.Watchlist[0] != DefaultSymbol {
		t.Errorf("Watchlist = %v, want [%s]", cfg.Watchlist, DefaultSymbol)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeTempFile(t, `
data_source:
  epoch: "2020-01-01"
  memo_ttl: 30m
news:
  api_key: from-file
forecast:
  default_years: 2
watchlist:
  - TCS.NS
  - INFY.NS
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DataSource.MemoTTL != 30*time.Minute {
		t.Errorf("MemoTTL = %v, want 30m", cfg.DataSource.MemoTTL)
	}
	if cfg.News.APIKey != "from-file" {
		t.Errorf("News.APIKey = %q, want from-file", cfg.News.APIKey)
	}
	if cfg.Forecast.DefaultYears != 2 {
		t.Errorf("DefaultYears = %d, want 2", cfg.Forecast.DefaultYears)
	}
	if len(cfg.Watchlist) != 2 {
		t.Errorf("Watchlist = %v, want 2 entries", cfg.Watchlist)
	}
	epoch, err := cfg.EpochTime()
	if err != nil {
		t.Fatalf("EpochTime: %v", err)
	}
	if epoch.Year() != 2020 {
		t.Errorf("epoch year = %d, want 2020", epoch.Year())
	}
}

func TestLoad_ExplicitZeroKept(t *testing.T) {
	path := writeTempFile(t, `
data_source:
  memo_ttl: 0s
forecast:
  changepoints: 0
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DataSource.MemoTTL != 0 {
		t.Errorf("MemoTTL = %v, want 0", cfg.DataSource.MemoTTL)
	}
	if cfg.Forecast.Changepoints != 0 {
		t.Errorf("Changepoints = %d, want 0", cfg.Forecast.Changepoints)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("explicit zeros should validate: %v", err)
	}

	cfg, err = Load(writeTempFile(t, "forecast:\n  default_years: 2\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DataSource.MemoTTL != DefaultMemoTTL || cfg.Forecast.Changepoints != DefaultChangepoints {
		t.Errorf("absent keys: MemoTTL=%v Changepoints=%d, want defaults", cfg.DataSource.MemoTTL, cfg.Forecast.Changepoints)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NEWS_API_KEY", "from-env")
	t.Setenv("WATCHLIST", "AAPL, MSFT ,")
	t.Setenv("MEMO_TTL", "5m")

	path := writeTempFile(t, "news:\n  api_key: from-file\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.News.APIKey != "from-env" {
		t.Errorf("News.APIKey = %q, want from-env", cfg.News.APIKey)
	}
	if len(cfg.Watchlist) != 2 || cfg.Watchlist[1] != "MSFT" {
		t.Errorf("Watchlist = %v, want [AAPL MSFT]", cfg.Watchlist)
	}
	if cfg.DataSource.MemoTTL != 5*time.Minute {
		t.Errorf("MemoTTL = %v, want 5m", cfg.DataSource.MemoTTL)
	}
}

func TestLoad_BadMemoTTL(t *testing.T) {
	t.Setenv("MEMO_TTL", "soon")
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for unparsable MEMO_TTL")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTempFile(t, "news: [unclosed")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"bad epoch", func(c *Config) { c.DataSource.Epoch = "01/01/2018" }, true},
		{"years above max", func(c *Config) { c.Forecast.DefaultYears = 5 }, true},
		{"interval width one", func(c *Config) { c.Forecast.IntervalWidth = 1 }, true},
		{"page size too big", func(c *Config) { c.News.PageSize = 500 }, true},
		{"token without chat", func(c *Config) { c.Telegram.BotToken = "x" }, true},
		{"telegram pair", func(c *Config) { c.Telegram.BotToken, c.Telegram.ChatID = "x", "1" }, false},
		{"blank watchlist entry", func(c *Config) { c.Watchlist = []string{"TCS.NS", " "} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
