package forecast

import (
	"math"
	"time"

	"StockCast/internal/domain/models"
)

const projectSalt = 3000

// ProjectFuture walks forward from the last actual close for days steps,
// starting the day after today. The drift is biased slightly upward and the
// band widens per point between 5% and 15%.
func ProjectFuture(ticker string, lastActual float64, days int, today time.Time) ([]models.ForecastPoint, []models.ForecastTableRow) {
	if days <= 0 {
		return []models.ForecastPoint{}, []models.ForecastTableRow{}
	}
	points := make([]models.ForecastPoint, days)
	rows := make([]models.ForecastTableRow, days)

	price := lastActual
	for i := 0; i < days; i++ {
		date := today.AddDate(0, 0, i+1)
		drift := float64((Value(ticker, i+projectSalt) - 0.48) * float64(price*0.03))
		price = math.Max(price+drift, priceFloor)

		predicted := round2(price)
		pct := 0.05 + float64(Value(ticker, i+projectSalt+1)*0.10)
		points[i] = models.ForecastPoint{
			Date:       date,
			Predicted:  predicted,
			LowerBound: round2(predicted * (1 - pct)),
			UpperBound: round2(predicted * (1 + pct)),
		}
		rows[i] = models.ForecastTableRow{Date: date, Predicted: predicted}
	}
	return points, rows
}
