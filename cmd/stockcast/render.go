package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"StockCast/internal/domain/models"
)

func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func outputForecast(w io.Writer, resp *models.PredictionResponse) error {
	last := 0.0
	if n := len(resp.HistoricalData); n > 0 {
		last = resp.HistoricalData[n-1].Actual
	}

	fmt.Fprintf(w, "%s: %d-day forecast\n", resp.Ticker, resp.ForecastDays)
	fmt.Fprintf(w, "Last close:      %.2f\n", last)
	fmt.Fprintf(w, "Predicted close: %.2f\n", resp.PredictedPriceForLastDay)
	fmt.Fprintf(w, "Advice:          %s\n\n", resp.Advice)

	// the future points are the tail of the full forecast
	future := resp.FullForecastData
	if k := len(future) - len(resp.FutureForecastTableData); k >= 0 {
		future = future[k:]
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Date", "Predicted", "Lower", "Upper"}),
	)
	for _, p := range future {
		if err := table.Append([]string{
			p.Date,
			fmt.Sprintf("%.2f", p.Predicted),
			fmt.Sprintf("%.2f", p.LowerBound),
			fmt.Sprintf("%.2f", p.UpperBound),
		}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(resp.BacktestChartData) == 0 {
		return nil
	}

	fmt.Fprintln(w, "\n--- Backtest ---")
	bt := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Date", "Actual", "Predicted", "Error"}),
	)
	for _, p := range resp.BacktestChartData {
		if err := bt.Append([]string{
			p.Date,
			fmt.Sprintf("%.2f", p.Actual),
			fmt.Sprintf("%.2f", p.Predicted),
			fmt.Sprintf("%+.2f", p.Predicted-p.Actual),
		}); err != nil {
			return err
		}
	}
	return bt.Render()
}

func outputScan(w io.Writer, rows []scanRow, took time.Duration) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Symbol", "Name", "Last", "Predicted", "Change", "Signal"}),
	)
	failed := 0
	for _, r := range rows {
		name := r.Name
		if len(name) > 24 {
			name = name[:24] + "..."
		}
		if r.Err != "" {
			failed++
			if err := table.Append([]string{r.Symbol, name, "-", "-", "-", r.Signal}); err != nil {
				return err
			}
			continue
		}
		if err := table.Append([]string{
			r.Symbol,
			name,
			fmt.Sprintf("%.2f", r.LastClose),
			fmt.Sprintf("%.2f", r.Predicted),
			fmt.Sprintf("%+.1f%%", r.Change*100),
			r.Signal,
		}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nScanned %d tickers in %s", len(rows), took.Round(time.Millisecond))
	if failed > 0 {
		fmt.Fprintf(w, " (%d failed)", failed)
	}
	fmt.Fprintln(w)
	for _, r := range rows {
		if r.Err != "" {
			fmt.Fprintf(w, "  %s: %s\n", r.Symbol, r.Err)
		}
	}
	return nil
}
