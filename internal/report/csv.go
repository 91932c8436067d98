package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

var csvHeader = []string{
	"Symbol", "Price", "Action", "Confidence", "Reason", "Sentiment",
	"Backtest_Return", "Backtest_Sharpe", "Option_Type", "Option_Strike",
}

// WriteCSV writes one row per entry.
func WriteCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, e := range r.Entries {
		optType, optStrike := "", ""
		if o, ok := e.Signal.Option.Get(); ok {
			optType = o.Type.Label()
			optStrike = strconv.FormatFloat(o.Strike, 'f', 2, 64)
		}
		row := []string{
			e.Symbol,
			strconv.FormatFloat(e.Price, 'f', 2, 64),
			string(e.Signal.Action),
			fmt.Sprintf("%.1f%%", e.Signal.Confidence),
			e.Signal.Reason,
			strconv.FormatFloat(e.Sentiment, 'f', 3, 64),
			fmt.Sprintf("%.2f%%", e.Backtest.TotalReturn*100),
			strconv.FormatFloat(e.Backtest.SharpeRatio, 'f', 2, 64),
			optType,
			optStrike,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the CSV report to path.
func SaveCSV(path string, r Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteCSV(f, r); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
