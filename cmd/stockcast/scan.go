package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"StockCast/internal/domain/models"
)

// scanRow is one classified ticker. Err is set when the forecast failed.
type scanRow struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	LastClose float64 `json:"lastClose"`
	Predicted float64 `json:"predicted"`
	Change    float64 `json:"change"`
	Signal    string  `json:"signal"`
	Err       string  `json:"error,omitempty"`
}

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Classify every popular ticker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "table" && format != "json" {
				return fmt.Errorf("unknown format %q (want table or json)", format)
			}

			ctx, cancel := signalContext()
			defer cancel()

			fmt.Fprintf(os.Stderr, "Scanning %d tickers over %d days...\n\n", len(models.PopularTickers), days)

			bar := progressbar.NewOptions(len(models.PopularTickers),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowCount(),
				progressbar.OptionShowIts(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Scanning"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]█[reset]",
					SaucerHead:    "[green]█[reset]",
					SaucerPadding: "░",
					BarStart:      "[",
					BarEnd:        "]",
				}),
			)

			start := time.Now()
			rows, err := scan(ctx, newForecaster(), days, func(done int) { _ = bar.Set(done) })
			_ = bar.Finish()
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return err
			}

			if format == "json" {
				return outputJSON(os.Stdout, rows)
			}
			return outputScan(os.Stdout, rows, time.Since(start))
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json")
	return cmd
}

// scan forecasts the popular tickers in list order. A failing ticker is
// recorded in its row and does not stop the scan; cancellation does.
func scan(ctx context.Context, f forecaster, days int, progress func(done int)) ([]scanRow, error) {
	rows := make([]scanRow, 0, len(models.PopularTickers))
	for i, t := range models.PopularTickers {
		if err := ctx.Err(); err != nil {
			return rows, fmt.Errorf("scan interrupted: %w", err)
		}

		row := scanRow{Symbol: t.Symbol, Name: t.Name, Signal: models.AdviceNone.String()}
		res, err := fetchResult(ctx, f, t.Symbol, days)
		if err != nil {
			row.Err = err.Error()
		} else {
			row.LastClose = res.LastActual()
			row.Predicted = res.PredictedPriceForLastDay
			row.Signal = res.Advice.String()
			if row.LastClose != 0 {
				row.Change = (row.Predicted - row.LastClose) / row.LastClose
			}
		}
		rows = append(rows, row)

		if progress != nil {
			progress(i + 1)
		}
	}
	return rows, nil
}

func fetchResult(ctx context.Context, f forecaster, ticker string, days int) (*models.PredictionResult, error) {
	resp, err := f(ctx, ticker, days)
	if err != nil {
		return nil, err
	}
	res, err := models.FromResponse(*resp)
	if err != nil {
		return nil, fmt.Errorf("decode forecast for %s: %w", ticker, err)
	}
	return &res, nil
}
