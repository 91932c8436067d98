package config

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/newthinker/tradebot/internal/core"
)

// LoadTickers reads a "symbol,type" CSV with a header row. Blank symbols are
// skipped and a missing type defaults to stock.
func LoadTickers(path string) ([]WatchlistItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("opening tickers file: %w", err))
	}
	defer f.Close()
	return ParseTickers(f)
}

// ParseTickers parses ticker CSV content from r.
func ParseTickers(r io.Reader) ([]WatchlistItem, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var items []WatchlistItem
	header := true
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("parsing tickers: %w", err))
		}
		if header {
			header = false
			continue
		}
		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			continue
		}

		item := WatchlistItem{Symbol: strings.TrimSpace(rec[0]), Type: core.AssetStock}
		if len(rec) > 1 && strings.TrimSpace(rec[1]) != "" {
			item.Type = core.AssetType(strings.ToLower(strings.TrimSpace(rec[1])))
		}
		items = append(items, item)
	}
	return items, nil
}

// Symbols merges the inline watchlist with the tickers file, dropping
// duplicate symbols. The inline entry wins.
func (c *Config) Symbols() ([]WatchlistItem, error) {
	seen := make(map[string]bool)
	var out []WatchlistItem
	add := func(items []WatchlistItem) {
		for _, it := range items {
			if seen[it.Symbol] {
				continue
			}
			if it.Type == "" {
				it.Type = core.AssetStock
			}
			seen[it.Symbol] = true
			out = append(out, it)
		}
	}

	add(c.Watchlist)
	if c.TickersFile != "" {
		items, err := LoadTickers(c.TickersFile)
		if err != nil {
			return nil, err
		}
		add(items)
	}
	return out, nil
}
