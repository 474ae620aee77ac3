package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"StockCast/internal/client"
	"StockCast/internal/domain/models"
	"StockCast/internal/services/forecast"
	"StockCast/internal/usecase"
	xhttp "StockCast/pkg/http"
	pkgmetrics "StockCast/pkg/metrics"
)

var (
	serverURL string
	format    string
	days      int
	timeout   time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stockcast",
		Short: "Synthetic stock forecasts from the command line",
		Long: `StockCast produces deterministic synthetic price forecasts.

Without --server the forecast is generated in-process. With --server the
request goes to a running StockCast API.

Examples:
  stockcast predict AAPL --days 14
  stockcast predict msft --server http://localhost:8080 --format json
  stockcast scan --days 30`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "StockCast API base URL (default: generate locally)")
	rootCmd.PersistentFlags().IntVar(&days, "days", models.DefaultForecastDays, "forecast horizon in days")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")

	rootCmd.AddCommand(newPredictCmd(), newScanCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// forecaster fetches one forecast, either in-process or over HTTP.
type forecaster func(ctx context.Context, ticker string, days int) (*models.PredictionResponse, error)

func newForecaster() forecaster {
	if serverURL != "" {
		c := client.NewPredictionClient(serverURL, xhttp.WithTimeout(timeout))
		return c.Predict
	}

	uc := usecase.NewPredictionUseCase(forecast.NewGenerator(), pkgmetrics.New(prometheus.NewRegistry()), nil)
	return func(ctx context.Context, ticker string, days int) (*models.PredictionResponse, error) {
		res, err := uc.Predict(ctx, ticker, days)
		if err != nil {
			// same wording the API would answer with
			return nil, errors.New(usecase.AppErrorFor(err).Message)
		}
		out := models.ToResponse(res)
		return &out, nil
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
