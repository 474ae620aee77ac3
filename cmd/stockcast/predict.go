package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict TICKER",
		Short: "Forecast one ticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "table" && format != "json" {
				return fmt.Errorf("unknown format %q (want table or json)", format)
			}

			ctx, cancel := signalContext()
			defer cancel()

			resp, err := newForecaster()(ctx, strings.TrimSpace(args[0]), days)
			if err != nil {
				return err
			}

			if format == "json" {
				return outputJSON(os.Stdout, resp)
			}
			return outputForecast(os.Stdout, resp)
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json")
	return cmd
}
