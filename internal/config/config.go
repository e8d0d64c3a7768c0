package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		BaseURL       string        `yaml:"base_url"`
		Epoch         string        `yaml:"epoch"`
		DefaultSymbol string        `yaml:"default_symbol"`
		MemoTTL       time.Duration `yaml:"memo_ttl"`
		DisableMemo   bool          `yaml:"disable_memo"`
		Timeout       time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	News struct {
		BaseURL  string        `yaml:"base_url"`
		APIKey   string        `yaml:"api_key"`
		PageSize int           `yaml:"page_size"`
		Language string        `yaml:"language"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"news"`
	Forecast struct {
		DefaultYears  int     `yaml:"default_years"`
		MaxYears      int     `yaml:"max_years"`
		IntervalWidth float64 `yaml:"interval_width"`
		Changepoints  int     `yaml:"changepoints"`
	} `yaml:"forecast"`
	Server struct {
		Addr           string        `yaml:"addr"`
		Debug          bool          `yaml:"debug"`
		StreamInterval time.Duration `yaml:"stream_interval"`
	} `yaml:"server"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		DigestCron string `yaml:"digest_cron"`
		PurgeCron  string `yaml:"purge_cron"`
	} `yaml:"schedule"`
	Watchlist []string `yaml:"watchlist"`
	Database  struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file and a .env file next to the working
// directory, then applies environment variable overrides and defaults.
// Both files are optional.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.seedDefaults()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env never overrides variables already present in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("YAHOO_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("DEFAULT_SYMBOL"); v != "" {
		c.DataSource.DefaultSymbol = v
	}
	if v := os.Getenv("MEMO_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse MEMO_TTL: %w", err)
		}
		c.DataSource.MemoTTL = d
	}
	if os.Getenv("DISABLE_MEMO") == "true" {
		c.DataSource.DisableMemo = true
	}
	if v := os.Getenv("NEWS_BASE_URL"); v != "" {
		c.News.BaseURL = v
	}
	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		c.News.APIKey = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("CRON_DIGEST"); v != "" {
		c.Schedule.DigestCron = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		c.Watchlist = nil
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.Watchlist = append(c.Watchlist, s)
			}
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	return nil
}

// EpochTime parses DataSource.Epoch as a calendar date.
func (c *Config) EpochTime() (time.Time, error) {
	t, err := time.Parse(time.DateOnly, c.DataSource.Epoch)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse data_source.epoch: %w", err)
	}
	return t, nil
}

// TelegramEnabled reports whether both bot credentials are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks value ranges and required pairs.
func (c *Config) Validate() error {
	if _, err := c.EpochTime(); err != nil {
		return err
	}
	if c.DataSource.MemoTTL < 0 {
		return errors.New("data_source.memo_ttl must not be negative")
	}
	if c.News.PageSize < 1 || c.News.PageSize > 100 {
		return fmt.Errorf("news.page_size must be between 1 and 100, got %d", c.News.PageSize)
	}
	if c.Forecast.MaxYears < 1 {
		return errors.New("forecast.max_years must be >= 1")
	}
	if c.Forecast.DefaultYears < 1 || c.Forecast.DefaultYears > c.Forecast.MaxYears {
		return fmt.Errorf("forecast.default_years must be between 1 and %d", c.Forecast.MaxYears)
	}
	if c.Forecast.IntervalWidth <= 0 || c.Forecast.IntervalWidth >= 1 {
		return errors.New("forecast.interval_width must be in (0, 1)")
	}
	if c.Forecast.Changepoints < 0 {
		return errors.New("forecast.changepoints must be >= 0")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return errors.New("telegram.bot_token and telegram.chat_id must be set together")
	}
	for i, s := range c.Watchlist {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("watchlist[%d] is empty", i)
		}
	}
	return nil
}
