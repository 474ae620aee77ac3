package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockCast/internal/domain/models"
	"StockCast/pkg/util"
)

var refDay = time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

func day(s string) time.Time {
	t, err := time.Parse(util.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestGenerateAAPLGolden(t *testing.T) {
	r := NewGenerator().Generate("AAPL", 7, refDay)

	require.Len(t, r.HistoricalData, HistoryDays)
	assert.Equal(t, models.HistoricalPoint{Date: day("2023-03-16"), Actual: 55.57}, r.HistoricalData[0])
	assert.Equal(t, models.HistoricalPoint{Date: day("2024-03-14"), Actual: 71.08}, r.HistoricalData[364])

	require.Len(t, r.FullForecastData, HistoryDays+7)
	assert.Equal(t, models.ForecastPoint{Date: day("2023-03-16"), Predicted: 54.46, LowerBound: 51.79, UpperBound: 56.39}, r.FullForecastData[0])
	assert.Equal(t, models.ForecastPoint{Date: day("2024-03-14"), Predicted: 71.37, LowerBound: 67.16, UpperBound: 73.74}, r.FullForecastData[364])
	assert.Equal(t, models.ForecastPoint{Date: day("2024-03-16"), Predicted: 70.89, LowerBound: 63.83, UpperBound: 77.95}, r.FullForecastData[365])
	assert.Equal(t, models.ForecastPoint{Date: day("2024-03-22"), Predicted: 73.31, LowerBound: 62.5, UpperBound: 84.12}, r.FullForecastData[371])

	want := []float64{70.89, 70.93, 71.84, 72.16, 72.84, 73.97, 73.31}
	require.Len(t, r.FutureForecastTableData, len(want))
	for i, row := range r.FutureForecastTableData {
		assert.Equal(t, want[i], row.Predicted, "row %d", i)
		assert.Equal(t, refDay.AddDate(0, 0, i+1), row.Date)
	}

	assert.Equal(t, 73.31, r.PredictedPriceForLastDay)
	assert.Equal(t, models.AdviceHold, r.Advice)

	wantBT := []models.BacktestPoint{
		{Date: day("2024-03-08"), Actual: 71.22, Predicted: 71.28},
		{Date: day("2024-03-09"), Actual: 70.06, Predicted: 68.71},
		{Date: day("2024-03-10"), Actual: 69.26, Predicted: 70.1},
		{Date: day("2024-03-11"), Actual: 70.61, Predicted: 71.24},
		{Date: day("2024-03-12"), Actual: 71.24, Predicted: 71.73},
		{Date: day("2024-03-13"), Actual: 71.92, Predicted: 73.37},
		{Date: day("2024-03-14"), Actual: 71.08, Predicted: 71.37},
	}
	assert.Equal(t, wantBT, r.BacktestChartData)
}

func TestGenerateOtherTickers(t *testing.T) {
	g := NewGenerator()

	aapl30 := g.Generate("AAPL", 30, refDay)
	assert.Equal(t, models.ForecastPoint{Date: day("2024-04-14"), Predicted: 76.27, LowerBound: 72.02, UpperBound: 80.52}, aapl30.FullForecastData[len(aapl30.FullForecastData)-1])
	assert.Equal(t, 76.27, aapl30.PredictedPriceForLastDay)

	msft := g.Generate("MSFT", 7, refDay)
	assert.Equal(t, 245.47, msft.HistoricalData[0].Actual)
	assert.Equal(t, 197.77, msft.LastActual())
	assert.Equal(t, models.ForecastPoint{Date: day("2024-03-16"), Predicted: 198.31, LowerBound: 169.72, UpperBound: 226.9}, msft.FullForecastData[365])
	assert.Equal(t, models.AdviceHold, msft.Advice)
	assert.Equal(t, 198.28, msft.PredictedPriceForLastDay)
	assert.Equal(t, models.BacktestPoint{Date: day("2024-03-08"), Actual: 203.1, Predicted: 201.09}, msft.BacktestChartData[0])

	msft14 := g.Generate("MSFT", 14, refDay)
	assert.Equal(t, 203.53, msft14.PredictedPriceForLastDay)
}

func TestGenerateAdviceGolden(t *testing.T) {
	g := NewGenerator()
	cases := []struct {
		ticker string
		last   float64
		future []float64
		advice models.Advice
	}{
		{"RELIANCE.NS", 72.1, []float64{73.12, 74.23, 75.16, 74.33, 74.27, 74.28, 75.25}, models.AdviceBuy},
		{"T7", 238.03, []float64{240, 243.49, 245.3, 248.76, 252.35, 253.57, 251.75}, models.AdviceBuy},
		{"T92", 495.05, []float64{488.06, 482.42, 479.33, 480.58, 478.2, 473.57, 472.3}, models.AdviceSell},
	}
	for _, c := range cases {
		t.Run(c.ticker, func(t *testing.T) {
			r := g.Generate(c.ticker, 7, refDay)
			assert.Equal(t, c.last, r.LastActual())
			got := make([]float64, len(r.FutureForecastTableData))
			for i, row := range r.FutureForecastTableData {
				got[i] = row.Predicted
			}
			assert.Equal(t, c.future, got)
			assert.Equal(t, c.advice, r.Advice)
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	g := NewGenerator()
	a := g.Generate("NVDA", 30, refDay)
	b := g.Generate("NVDA", 30, refDay.Add(17*time.Hour))
	assert.Equal(t, a, b)
}

func TestGenerateInvariants(t *testing.T) {
	g := NewGenerator()
	for _, ticker := range append(models.PopularSymbols(), "ZZZZ", "X", "") {
		for _, days := range models.DefaultHorizons {
			r := g.Generate(ticker, days, refDay)

			require.Len(t, r.HistoricalData, HistoryDays)
			require.Len(t, r.FutureForecastTableData, days)
			require.Len(t, r.FullForecastData, HistoryDays+days)
			require.Len(t, r.MainChartData, HistoryDays+days)
			require.LessOrEqual(t, len(r.BacktestChartData), BacktestWindow)

			for _, h := range r.HistoricalData {
				require.GreaterOrEqual(t, h.Actual, 1.0)
			}
			for _, f := range r.FullForecastData[HistoryDays:] {
				require.Greater(t, f.LowerBound, 0.0)
				require.LessOrEqual(t, f.LowerBound, f.Predicted)
				require.LessOrEqual(t, f.Predicted, f.UpperBound)
			}
			histDates := make(map[time.Time]bool, HistoryDays)
			for _, h := range r.HistoricalData {
				histDates[h.Date] = true
			}
			for _, b := range r.BacktestChartData {
				require.True(t, histDates[b.Date])
			}
			for i, cp := range r.MainChartData {
				if i > 0 {
					require.True(t, cp.Date.After(r.MainChartData[i-1].Date))
				}
				require.NotNil(t, cp.Predicted, "chart point %d has no forecast", i)
				if i < HistoryDays {
					require.NotNil(t, cp.Actual)
				} else {
					require.Nil(t, cp.Actual)
				}
			}
			assert.Equal(t, r.FutureForecastTableData[days-1].Predicted, r.PredictedPriceForLastDay)
		}
	}
}

func TestGenerateZeroDays(t *testing.T) {
	r := NewGenerator().Generate("AAPL", 0, refDay)
	assert.Empty(t, r.FutureForecastTableData)
	assert.Len(t, r.FullForecastData, HistoryDays)
	assert.Equal(t, 0.0, r.PredictedPriceForLastDay)
	assert.Equal(t, models.AdviceNone, r.Advice)
}

func TestHistoryFloor(t *testing.T) {
	// Starting on the floor, the projection never drops below it.
	h := SynthesizeHistory("AAPL", refDay)
	for _, p := range h {
		assert.GreaterOrEqual(t, p.Actual, priceFloor)
	}
	_, rows := ProjectFuture("AAPL", 1, 90, refDay)
	for _, r := range rows {
		assert.GreaterOrEqual(t, r.Predicted, priceFloor)
	}
}
