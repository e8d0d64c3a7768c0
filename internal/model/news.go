package model

import "time"

// NewsItem is one headline returned by the news provider.
type NewsItem struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	SourceName  string    `json:"source_name"`
	PublishedAt time.Time `json:"published_at"`
	Description string    `json:"description"`
}
