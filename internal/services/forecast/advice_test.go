package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"StockCast/internal/domain/models"
)

func series(last float64, future ...float64) ([]models.HistoricalPoint, []models.ForecastTableRow) {
	h := []models.HistoricalPoint{{Date: refDay.AddDate(0, 0, -1), Actual: last}}
	rows := make([]models.ForecastTableRow, len(future))
	for i, v := range future {
		rows[i] = models.ForecastTableRow{Date: refDay.AddDate(0, 0, i+1), Predicted: v}
	}
	return h, rows
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		last   float64
		future []float64
		want   models.Advice
	}{
		{"up 5%", 100, []float64{105, 105, 105, 105, 105, 105, 105}, models.AdviceBuy},
		{"down 5%", 100, []float64{95, 95, 95, 95, 95, 95, 95}, models.AdviceSell},
		{"flat", 100, []float64{100, 100, 100, 100, 100, 100, 100}, models.AdviceHold},
		{"exactly 3%", 100, []float64{103}, models.AdviceHold},
		{"short horizon", 100, []float64{110, 110}, models.AdviceBuy},
		{"only first week counts", 100, []float64{100, 100, 100, 100, 100, 100, 100, 500, 500}, models.AdviceHold},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h, f := series(c.last, c.future...)
			assert.Equal(t, c.want, Classify(h, f))
		})
	}
}

func TestClassifyEmpty(t *testing.T) {
	h, f := series(100)
	assert.Equal(t, models.AdviceNone, Classify(h, f))
	assert.Equal(t, models.AdviceNone, Classify(nil, []models.ForecastTableRow{{Predicted: 1}}))
}

func TestBacktestSkipsMissing(t *testing.T) {
	d := func(i int) time.Time { return refDay.AddDate(0, 0, i) }
	var hist []models.HistoricalPoint
	for i := 0; i < 10; i++ {
		hist = append(hist, models.HistoricalPoint{Date: d(i), Actual: float64(i)})
	}
	// d(1) is fitted but falls before the last 7 actuals (d(3)..d(9))
	fit := []models.ForecastPoint{
		{Date: d(9), Predicted: 9.5},
		{Date: d(1), Predicted: 1.5},
		{Date: d(4), Predicted: 4.5},
		{Date: d(5), Predicted: 5.5},
	}

	got := Backtest(hist, fit)
	assert.Equal(t, []models.BacktestPoint{
		{Date: d(4), Actual: 4, Predicted: 4.5},
		{Date: d(5), Actual: 5, Predicted: 5.5},
		{Date: d(9), Actual: 9, Predicted: 9.5},
	}, got)
	for _, p := range got {
		assert.NotEqual(t, d(1), p.Date)
	}
}
