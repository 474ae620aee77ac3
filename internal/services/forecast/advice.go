package forecast

import "StockCast/internal/domain/models"

const (
	adviceWindow    = 7
	adviceThreshold = 0.03
)

// Classify compares the last close with the mean of the first week of the projection.
func Classify(history []models.HistoricalPoint, future []models.ForecastTableRow) models.Advice {
	if len(history) == 0 || len(future) == 0 {
		return models.AdviceNone
	}
	last := history[len(history)-1].Actual

	n := min(adviceWindow, len(future))
	sum := 0.0
	for _, r := range future[:n] {
		sum += r.Predicted
	}
	change := (sum/float64(n) - last) / last

	switch {
	case change > adviceThreshold:
		return models.AdviceBuy
	case change < -adviceThreshold:
		return models.AdviceSell
	default:
		return models.AdviceHold
	}
}
