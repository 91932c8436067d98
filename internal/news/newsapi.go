package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const newsAPIBaseURL = "https://newsapi.org"

// NewsAPI queries newsapi.org /v2/everything. Without an API key it is
// disabled and returns no headlines.
type NewsAPI struct {
	apiKey   string
	baseURL  string
	pageSize int
	client   *http.Client
	logger   *zap.Logger
}

// NewNewsAPI creates a NewsAPI provider.
func NewNewsAPI(apiKey string, logger ...*zap.Logger) *NewsAPI {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &NewsAPI{
		apiKey:   apiKey,
		baseURL:  newsAPIBaseURL,
		pageSize: MaxHeadlines,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   l,
	}
}

// WithBaseURL overrides the endpoint host.
func (n *NewsAPI) WithBaseURL(u string) *NewsAPI {
	n.baseURL = strings.TrimRight(u, "/")
	return n
}

// WithPageSize sets the number of articles requested.
func (n *NewsAPI) WithPageSize(size int) *NewsAPI {
	if size > 0 {
		n.pageSize = size
	}
	return n
}

func (n *NewsAPI) Name() string { return "newsapi" }

// Enabled reports whether an API key is configured.
func (n *NewsAPI) Enabled() bool {
	return n.apiKey != "" && n.apiKey != "DEMO"
}

func (n *NewsAPI) Headlines(ctx context.Context, symbol string) ([]Item, error) {
	if !n.Enabled() {
		return nil, nil
	}

	q := url.Values{}
	q.Set("q", symbol)
	q.Set("pageSize", strconv.Itoa(n.pageSize))
	q.Set("language", "en")
	u := fmt.Sprintf("%s/v2/everything?%s", n.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-Api-Key", n.apiKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching news: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var body newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if body.Status == "error" {
		return nil, fmt.Errorf("newsapi error: %s", body.Message)
	}

	items := make([]Item, 0, len(body.Articles))
	for _, a := range body.Articles {
		if a.Title == "" {
			continue
		}
		published, _ := time.Parse(time.RFC3339, a.PublishedAt)
		items = append(items, Item{
			Title:       a.Title,
			Source:      a.Source.Name,
			URL:         a.URL,
			Symbols:     []string{symbol},
			PublishedAt: published,
		})
		if len(items) == n.pageSize {
			break
		}
	}

	n.logger.Debug("fetched headlines",
		zap.String("provider", n.Name()),
		zap.String("symbol", symbol),
		zap.Int("count", len(items)))
	return items, nil
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}
