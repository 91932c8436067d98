// internal/news/types.go
package news

import (
	"context"
	"time"
)

// MaxHeadlines is the default number of headlines a provider returns.
const MaxHeadlines = 5

// Item represents a news article or headline.
type Item struct {
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	URL         string    `json:"url,omitempty"`
	Symbols     []string  `json:"symbols,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}

// Provider returns recent headlines for a symbol. An empty result with a nil
// error means the provider had nothing.
type Provider interface {
	Name() string
	Headlines(ctx context.Context, symbol string) ([]Item, error)
}

// Titles projects items onto their titles.
func Titles(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}
