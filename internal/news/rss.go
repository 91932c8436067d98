package news

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const yahooRSSBaseURL = "https://feeds.finance.yahoo.com"

// YahooRSS reads the Yahoo Finance RSS 2.0 headline feed.
type YahooRSS struct {
	baseURL string
	max     int
	client  *http.Client
	logger  *zap.Logger
}

// NewYahooRSS creates a Yahoo RSS provider.
func NewYahooRSS(logger ...*zap.Logger) *YahooRSS {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &YahooRSS{
		baseURL: yahooRSSBaseURL,
		max:     MaxHeadlines,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  l,
	}
}

// WithBaseURL overrides the feed host.
func (y *YahooRSS) WithBaseURL(u string) *YahooRSS {
	y.baseURL = strings.TrimRight(u, "/")
	return y
}

// WithMax sets the maximum number of headlines kept.
func (y *YahooRSS) WithMax(n int) *YahooRSS {
	if n > 0 {
		y.max = n
	}
	return y
}

func (y *YahooRSS) Name() string { return "yahoo_rss" }

// Headlines returns up to max item titles, skipping the feed's own
// "Yahoo Finance" entries.
func (y *YahooRSS) Headlines(ctx context.Context, symbol string) ([]Item, error) {
	q := url.Values{}
	q.Set("s", symbol)
	q.Set("region", "US")
	q.Set("lang", "en-US")
	u := fmt.Sprintf("%s/rss/2.0/headline?%s", y.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var feed rssFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decoding feed: %w", err)
	}

	items := make([]Item, 0, y.max)
	for _, it := range feed.Channel.Items {
		if len(items) == y.max {
			break
		}
		title := cleanTitle(it.Title)
		if title == "" || strings.Contains(title, "Yahoo Finance") {
			continue
		}
		published, _ := time.Parse(time.RFC1123Z, strings.TrimSpace(it.PubDate))
		items = append(items, Item{
			Title:       title,
			Source:      y.Name(),
			URL:         strings.TrimSpace(it.Link),
			Symbols:     []string{symbol},
			PublishedAt: published,
		})
	}

	y.logger.Debug("fetched headlines",
		zap.String("provider", y.Name()),
		zap.String("symbol", symbol),
		zap.Int("count", len(items)))
	return items, nil
}

// cleanTitle unwraps a literal CDATA section left in the title text.
func cleanTitle(text string) string {
	if start := strings.Index(text, "<![CDATA["); start >= 0 {
		rest := text[start+len("<![CDATA["):]
		if end := strings.Index(rest, "]]>"); end >= 0 {
			text = rest[:end]
		}
	}
	return strings.TrimSpace(text)
}

type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	PubDate string `xml:"pubDate"`
}
