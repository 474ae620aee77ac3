package forecast

import "StockCast/internal/domain/models"

const fitSalt = 2000

// FitInSample produces the fitted value and band for every historical day.
func FitInSample(ticker string, history []models.HistoricalPoint) []models.ForecastPoint {
	out := make([]models.ForecastPoint, len(history))
	for i, p := range history {
		noise := float64((Value(ticker, i+fitSalt) - 0.5) * float64(p.Actual*0.05))
		predicted := round2(p.Actual + noise)
		lowerPct := 0.03 + float64(Value(ticker, i+fitSalt+1)*0.05)
		upperPct := 0.03 + float64(Value(ticker, i+fitSalt+2)*0.05)
		out[i] = models.ForecastPoint{
			Date:       p.Date,
			Predicted:  predicted,
			LowerBound: round2(predicted * (1 - lowerPct)),
			UpperBound: round2(predicted * (1 + upperPct)),
		}
	}
	return out
}
