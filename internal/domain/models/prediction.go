package models

import "time"

// HistoricalPoint is one synthetic daily close.
type HistoricalPoint struct {
	Date   time.Time // UTC midnight of the civil date
	Actual float64
}

// ForecastPoint is a fitted (in-sample) or projected (future) value with its band.
type ForecastPoint struct {
	Date       time.Time
	Predicted  float64
	LowerBound float64
	UpperBound float64
}

type ForecastTableRow struct {
	Date      time.Time
	Predicted float64
}

type BacktestPoint struct {
	Date      time.Time
	Actual    float64
	Predicted float64
}

// ChartPoint merges actual and forecast series for plotting. Nil fields are absent.
type ChartPoint struct {
	Date       time.Time
	Actual     *float64
	Predicted  *float64
	LowerBound *float64
	UpperBound *float64
}

// Advice is the closed set of recommendations.
type Advice int

const (
	AdviceNone Advice = iota
	AdviceBuy
	AdviceSell
	AdviceHold
)

func (a Advice) String() string {
	switch a {
	case AdviceBuy:
		return "BUY"
	case AdviceSell:
		return "SELL"
	case AdviceHold:
		return "HOLD"
	default:
		return "NONE"
	}
}

// Label is the display text shown next to a forecast.
func (a Advice) Label() string {
	switch a {
	case AdviceBuy:
		return "BUY (Upward Trend)"
	case AdviceSell:
		return "SELL (Downward Trend)"
	case AdviceHold:
		return "HOLD (Neutral)"
	default:
		return ""
	}
}

// ParseAdvice is the inverse of String; unknown codes map to AdviceNone.
func ParseAdvice(s string) Advice {
	switch s {
	case "BUY":
		return AdviceBuy
	case "SELL":
		return AdviceSell
	case "HOLD":
		return AdviceHold
	default:
		return AdviceNone
	}
}

// PredictionResult is everything generated for one (ticker, horizon, day).
type PredictionResult struct {
	Ticker                   string
	ForecastDays             int
	HistoricalData           []HistoricalPoint
	FullForecastData         []ForecastPoint // in-sample fit followed by the future projection
	FutureForecastTableData  []ForecastTableRow
	PredictedPriceForLastDay float64
	Advice                   Advice
	BacktestChartData        []BacktestPoint
	MainChartData            []ChartPoint
}

// LastActual returns the most recent historical close, or 0 when there is none.
func (r *PredictionResult) LastActual() float64 {
	if len(r.HistoricalData) == 0 {
		return 0
	}
	return r.HistoricalData[len(r.HistoricalData)-1].Actual
}
