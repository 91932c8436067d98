// internal/news/static.go
package news

import (
	"context"
)

// Static is a provider that returns configured items. Items without symbols
// are treated as market-wide and returned for every symbol.
type Static struct {
	items []Item
}

// NewStatic creates a provider with static news items.
func NewStatic(items ...Item) *Static {
	return &Static{items: items}
}

func (p *Static) Name() string { return "static" }

// Headlines returns items tagged with symbol plus market-wide items.
func (p *Static) Headlines(ctx context.Context, symbol string) ([]Item, error) {
	var result []Item
	for _, item := range p.items {
		if len(item.Symbols) == 0 {
			result = append(result, item)
			continue
		}
		for _, s := range item.Symbols {
			if s == symbol {
				result = append(result, item)
				break
			}
		}
	}
	return result, nil
}
