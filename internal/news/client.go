package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"TradeTrends/internal/model"
)

// MaxItems caps the number of headlines per query.
const MaxItems = 5

// Source returns headlines for a symbol.
type Source interface {
	Headlines(ctx context.Context, symbol string) ([]model.NewsItem, error)
}

// Client queries the NewsAPI "everything" endpoint.
type Client struct {
	BaseURL  string
	APIKey   string
	PageSize int
	Language string
	Client   *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.Client = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.Client.Timeout = d }
}

// WithProxy routes requests through proxyURL. Invalid URLs are ignored.
func WithProxy(proxyURL string) Option {
	return func(c *Client) {
		if proxyURL == "" {
			return
		}
		if u, err := url.Parse(proxyURL); err == nil {
			c.Client.Transport = &http.Transport{Proxy: http.ProxyURL(u)}
		}
	}
}

// NewClient creates a news client. The API key is required for requests
// to succeed but a missing key only fails at query time.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		APIKey:   apiKey,
		PageSize: MaxItems,
		Language: "en",
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// QueryFor strips the exchange suffix: "RELIANCE.NS" becomes "RELIANCE".
func QueryFor(symbol string) string {
	symbol = strings.TrimSpace(symbol)
	if i := strings.Index(symbol, "."); i >= 0 {
		return symbol[:i]
	}
	return symbol
}

type everythingResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Title  string `json:"title"`
		URL    string `json:"url"`
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		PublishedAt string `json:"publishedAt"`
		Description string `json:"description"`
	} `json:"articles"`
}

// Headlines returns the latest English headlines for symbol, newest first.
// The slice is never nil. Every failure wraps model.ErrNewsFetchFailed.
func (c *Client) Headlines(ctx context.Context, symbol string) ([]model.NewsItem, error) {
	items := []model.NewsItem{}
	q := QueryFor(symbol)
	if q == "" {
		return items, fmt.Errorf("%w: empty query", model.ErrNewsFetchFailed)
	}
	if c.APIKey == "" {
		return items, fmt.Errorf("%w: news api key not configured", model.ErrNewsFetchFailed)
	}

	pageSize := c.PageSize
	if pageSize <= 0 || pageSize > MaxItems {
		pageSize = MaxItems
	}
	params := url.Values{}
	params.Set("q", q)
	params.Set("sortBy", "publishedAt")
	params.Set("language", c.Language)
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("apiKey", c.APIKey)
	reqURL := c.BaseURL + "/v2/everything?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return items, fmt.Errorf("%w: create request: %w", model.ErrNewsFetchFailed, err)
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		// The key travels in the query string; keep it out of logs.
		return items, fmt.Errorf("%w: request %q failed: %w", model.ErrNewsFetchFailed, q, model.Redact(err, c.APIKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return items, fmt.Errorf("%w: read response: %w", model.ErrNewsFetchFailed, err)
	}

	var out everythingResponse
	if err := json.Unmarshal(body, &out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return items, fmt.Errorf("%w: status %d", model.ErrNewsFetchFailed, resp.StatusCode)
		}
		return items, fmt.Errorf("%w: decode response: %w", model.ErrNewsFetchFailed, err)
	}
	if resp.StatusCode != http.StatusOK || out.Status == "error" {
		return items, fmt.Errorf("%w: status %d %s: %s", model.ErrNewsFetchFailed, resp.StatusCode, out.Code, out.Message)
	}

	for _, a := range out.Articles {
		if len(items) == MaxItems {
			break
		}
		item := model.NewsItem{
			Title:       a.Title,
			URL:         a.URL,
			SourceName:  a.Source.Name,
			Description: a.Description,
		}
		if ts, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			item.PublishedAt = ts.UTC()
		}
		items = append(items, item)
	}
	log.Printf("[INFO] news: %d headlines for %q", len(items), q)
	return items, nil
}
