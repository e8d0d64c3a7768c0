package collector

import (
	"context"
	"time"

	"TradeTrends/internal/model"
)

// Fetcher defines the interface for fetching daily bars from a market-data provider.
// Implementations return an error wrapping model.ErrNoData when the provider
// has nothing for the symbol, and any other error for transport failures.
type Fetcher interface {
	// FetchDaily returns daily bars in [start, end), sorted by date.
	FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error)
	// FetchLatest returns the most recent session only.
	FetchLatest(ctx context.Context, symbol string) ([]model.OHLCV, error)
	Name() string
}
