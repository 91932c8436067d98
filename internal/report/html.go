package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"strings"

	"github.com/newthinker/tradebot/internal/core"
)

//go:embed templates/report.html
var templateFS embed.FS

var reportTemplate = template.Must(template.New("report.html").Funcs(template.FuncMap{
	"money":   func(v float64) string { return fmt.Sprintf("$%.2f", v) },
	"pct":     func(v float64) string { return fmt.Sprintf("%.2f%%", v*100) },
	"fixed":   func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"targets": formatTargets,
}).ParseFS(templateFS, "templates/report.html"))

// card is the template view of one entry.
type card struct {
	Entry
	Class    string
	HasWatch bool
	Option   *core.OptionOverlay
	Labels   []int
	Closes   []float64
}

type page struct {
	GeneratedAt string
	Disclaimer  string
	Cards       []card
}

// WriteHTML renders the report as a single self-contained page.
func WriteHTML(w io.Writer, r Report) error {
	p := page{
		GeneratedAt: r.GeneratedAt.Format("2006-01-02 15:04:05"),
		Disclaimer:  Disclaimer,
	}
	for _, e := range r.Entries {
		c := card{Entry: e, Class: "hold"}
		switch e.Signal.Action {
		case core.ActionBuy:
			c.Class = "buy"
		case core.ActionSell:
			c.Class = "sell"
		default:
			c.HasWatch = true
		}
		if o, ok := e.Signal.Option.Get(); ok {
			c.Option = &o
		}
		c.Labels, c.Closes = chartSeries(e.History)
		p.Cards = append(p.Cards, c)
	}
	return reportTemplate.Execute(w, p)
}

// SaveHTML writes the HTML report to path.
func SaveHTML(path string, r Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteHTML(f, r); err != nil {
		f.Close()
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	return f.Close()
}

func formatTargets(targets []float64) string {
	parts := make([]string, len(targets))
	for i, t := range targets {
		parts[i] = fmt.Sprintf("$%.2f", t)
	}
	return strings.Join(parts, ", ")
}
