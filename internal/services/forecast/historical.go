package forecast

import (
	"math"
	"time"

	"StockCast/internal/domain/models"
)

const (
	HistoryDays = 365

	startPriceSalt = 1
	historySalt    = 100

	// Minimum price after every step.
	priceFloor = 1.0
)

// SynthesizeHistory fabricates HistoryDays daily closes ending the day before today.
// The unrounded price carries from step to step; only emitted values are rounded.
func SynthesizeHistory(ticker string, today time.Time) []models.HistoricalPoint {
	start := today.AddDate(0, 0, -HistoryDays)
	price := float64(Value(ticker, startPriceSalt)*300) + 50

	out := make([]models.HistoricalPoint, HistoryDays)
	for i := 0; i < HistoryDays; i++ {
		// explicit conversions prevent FMA fusion; keep them for bit-identical output
		change := float64((Value(ticker, i+historySalt) - 0.49) * float64(price*0.05))
		price = math.Max(price+change, priceFloor)
		out[i] = models.HistoricalPoint{
			Date:   start.AddDate(0, 0, i),
			Actual: round2(price),
		}
	}
	return out
}
