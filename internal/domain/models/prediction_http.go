package models

import (
	"fmt"
	"time"

	"StockCast/pkg/util"
)

// Request and response shapes for the prediction HTTP and WebSocket endpoints.

type PredictRequest struct {
	Ticker string `query:"ticker" json:"ticker" validate:"required"`
	Days   int    `query:"days" json:"days" default:"7" validate:"gte=1,lte=365"`
}

type HistoricalPointDTO struct {
	Date   string  `json:"ds"`
	Actual float64 `json:"y"`
}

type ForecastPointDTO struct {
	Date       string  `json:"ds"`
	Predicted  float64 `json:"yhat"`
	LowerBound float64 `json:"yhat_lower"`
	UpperBound float64 `json:"yhat_upper"`
}

type ForecastTableRowDTO struct {
	Date      string  `json:"ds"`
	Predicted float64 `json:"yhat"`
}

type BacktestPointDTO struct {
	Date      string  `json:"ds"`
	Actual    float64 `json:"actual"`
	Predicted float64 `json:"predicted"`
}

type ChartPointDTO struct {
	Date       string   `json:"ds"`
	Actual     *float64 `json:"actual,omitempty"`
	Predicted  *float64 `json:"forecast,omitempty"`
	LowerBound *float64 `json:"lowerBound,omitempty"`
	UpperBound *float64 `json:"upperBound,omitempty"`
}

// PredictionResponse is the wire form of PredictionResult.
type PredictionResponse struct {
	Ticker                   string                `json:"ticker"`
	ForecastDays             int                   `json:"forecastDays"`
	HistoricalData           []HistoricalPointDTO  `json:"historicalData"`
	FullForecastData         []ForecastPointDTO    `json:"fullForecastData"`
	FutureForecastTableData  []ForecastTableRowDTO `json:"futureForecastTableData"`
	PredictedPriceForLastDay float64               `json:"predictedPriceForLastDay"`
	Advice                   string                `json:"advice"`
	Signal                   string                `json:"signal"`
	BacktestChartData        []BacktestPointDTO    `json:"backtestChartData"`
	MainChartData            []ChartPointDTO       `json:"mainChartData"`
}

type TickerDTO struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

type TickersResponse struct {
	Tickers     []TickerDTO `json:"tickers"`
	Horizons    []int       `json:"horizons"`
	DefaultDays int         `json:"defaultDays"`
}

// ToResponse converts a domain result to its wire form.
func ToResponse(r *PredictionResult) PredictionResponse {
	out := PredictionResponse{
		Ticker:                   r.Ticker,
		ForecastDays:             r.ForecastDays,
		HistoricalData:           make([]HistoricalPointDTO, len(r.HistoricalData)),
		FullForecastData:         make([]ForecastPointDTO, len(r.FullForecastData)),
		FutureForecastTableData:  make([]ForecastTableRowDTO, len(r.FutureForecastTableData)),
		PredictedPriceForLastDay: r.PredictedPriceForLastDay,
		Advice:                   r.Advice.Label(),
		Signal:                   r.Advice.String(),
		BacktestChartData:        make([]BacktestPointDTO, len(r.BacktestChartData)),
		MainChartData:            make([]ChartPointDTO, len(r.MainChartData)),
	}
	for i, p := range r.HistoricalData {
		out.HistoricalData[i] = HistoricalPointDTO{Date: util.FormatDate(p.Date), Actual: p.Actual}
	}
	for i, p := range r.FullForecastData {
		out.FullForecastData[i] = ForecastPointDTO{
			Date:       util.FormatDate(p.Date),
			Predicted:  p.Predicted,
			LowerBound: p.LowerBound,
			UpperBound: p.UpperBound,
		}
	}
	for i, p := range r.FutureForecastTableData {
		out.FutureForecastTableData[i] = ForecastTableRowDTO{Date: util.FormatDate(p.Date), Predicted: p.Predicted}
	}
	for i, p := range r.BacktestChartData {
		out.BacktestChartData[i] = BacktestPointDTO{Date: util.FormatDate(p.Date), Actual: p.Actual, Predicted: p.Predicted}
	}
	for i, p := range r.MainChartData {
		out.MainChartData[i] = ChartPointDTO{
			Date:       util.FormatDate(p.Date),
			Actual:     p.Actual,
			Predicted:  p.Predicted,
			LowerBound: p.LowerBound,
			UpperBound: p.UpperBound,
		}
	}
	return out
}

// FromResponse rebuilds a domain result from its wire form.
func FromResponse(w PredictionResponse) (PredictionResult, error) {
	r := PredictionResult{
		Ticker:                   w.Ticker,
		ForecastDays:             w.ForecastDays,
		PredictedPriceForLastDay: w.PredictedPriceForLastDay,
		Advice:                   ParseAdvice(w.Signal),
	}
	var err error
	parse := func(s string) time.Time {
		t, ok := util.ParseDate(s)
		if !ok && err == nil {
			err = fmt.Errorf("bad date %q", s)
		}
		return t
	}
	for _, p := range w.HistoricalData {
		r.HistoricalData = append(r.HistoricalData, HistoricalPoint{Date: parse(p.Date), Actual: p.Actual})
	}
	for _, p := range w.FullForecastData {
		r.FullForecastData = append(r.FullForecastData, ForecastPoint{
			Date: parse(p.Date), Predicted: p.Predicted, LowerBound: p.LowerBound, UpperBound: p.UpperBound,
		})
	}
	for _, p := range w.FutureForecastTableData {
		r.FutureForecastTableData = append(r.FutureForecastTableData, ForecastTableRow{Date: parse(p.Date), Predicted: p.Predicted})
	}
	for _, p := range w.BacktestChartData {
		r.BacktestChartData = append(r.BacktestChartData, BacktestPoint{Date: parse(p.Date), Actual: p.Actual, Predicted: p.Predicted})
	}
	for _, p := range w.MainChartData {
		r.MainChartData = append(r.MainChartData, ChartPoint{
			Date: parse(p.Date), Actual: p.Actual, Predicted: p.Predicted, LowerBound: p.LowerBound, UpperBound: p.UpperBound,
		})
	}
	if err != nil {
		return PredictionResult{}, err
	}
	return r, nil
}
