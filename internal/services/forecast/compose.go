package forecast

import (
	"time"

	"StockCast/internal/domain/models"
	"StockCast/pkg/util"
)

// Generator runs the whole synthetic pipeline. It holds no state.
type Generator struct{}

func NewGenerator() *Generator { return &Generator{} }

// Generate builds the result for a normalized ticker. today is truncated to
// its UTC civil date; identical inputs give identical output.
func (Generator) Generate(ticker string, days int, today time.Time) models.PredictionResult {
	today = util.CivilDate(today)

	history := SynthesizeHistory(ticker, today)
	fit := FitInSample(ticker, history)
	future, table := ProjectFuture(ticker, history[len(history)-1].Actual, days, today)

	full := make([]models.ForecastPoint, 0, len(fit)+len(future))
	full = append(full, fit...)
	full = append(full, future...)

	last := 0.0
	if len(table) > 0 {
		last = table[len(table)-1].Predicted
	}

	return models.PredictionResult{
		Ticker:                   ticker,
		ForecastDays:             days,
		HistoricalData:           history,
		FullForecastData:         full,
		FutureForecastTableData:  table,
		PredictedPriceForLastDay: last,
		Advice:                   Classify(history, table),
		BacktestChartData:        Backtest(history, fit),
		MainChartData:            MergeChart(history, fit, future),
	}
}

// MergeChart emits one entry per historical date followed by one per future date.
// Historical entries carry the in-sample fit as their forecast band.
func MergeChart(history []models.HistoricalPoint, fit, future []models.ForecastPoint) []models.ChartPoint {
	fitByDate := make(map[time.Time]models.ForecastPoint, len(fit))
	for _, f := range fit {
		if _, ok := fitByDate[f.Date]; !ok {
			fitByDate[f.Date] = f
		}
	}

	out := make([]models.ChartPoint, 0, len(history)+len(future))
	for _, h := range history {
		cp := models.ChartPoint{Date: h.Date, Actual: ptr(h.Actual)}
		if f, ok := fitByDate[h.Date]; ok {
			cp.Predicted = ptr(f.Predicted)
			cp.LowerBound = ptr(f.LowerBound)
			cp.UpperBound = ptr(f.UpperBound)
		}
		out = append(out, cp)
	}
	for _, f := range future {
		out = append(out, models.ChartPoint{
			Date:       f.Date,
			Predicted:  ptr(f.Predicted),
			LowerBound: ptr(f.LowerBound),
			UpperBound: ptr(f.UpperBound),
		})
	}
	return out
}

func ptr(v float64) *float64 { return &v }
