package forecast

import (
	"time"

	"StockCast/internal/domain/models"
)

const BacktestWindow = 7

// Backtest pairs the last BacktestWindow actuals with the fitted value of the same date.
// Dates without a fit are skipped.
func Backtest(history []models.HistoricalPoint, fit []models.ForecastPoint) []models.BacktestPoint {
	byDate := make(map[time.Time]float64, len(fit))
	for _, f := range fit {
		if _, ok := byDate[f.Date]; !ok {
			byDate[f.Date] = f.Predicted
		}
	}

	tail := history
	if len(tail) > BacktestWindow {
		tail = tail[len(tail)-BacktestWindow:]
	}

	out := make([]models.BacktestPoint, 0, len(tail))
	for _, h := range tail {
		predicted, ok := byDate[h.Date]
		if !ok {
			continue
		}
		out = append(out, models.BacktestPoint{Date: h.Date, Actual: h.Actual, Predicted: predicted})
	}
	return out
}
