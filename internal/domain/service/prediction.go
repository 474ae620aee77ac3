package service

import (
	"context"
	"time"

	"StockCast/internal/domain/models"
)

// Generator builds a full result from a normalized ticker, a horizon and the current civil date.
type Generator interface {
	Generate(ticker string, days int, today time.Time) models.PredictionResult
}

// Predictor is the boundary every transport calls.
type Predictor interface {
	Predict(ctx context.Context, ticker string, days int) (*models.PredictionResult, error)
}

// Rejector decides whether a symbol is reported as having no data.
type Rejector interface {
	Reject(ticker string) bool
}

// Delayer simulates upstream latency. It returns ctx.Err() if cancelled first.
type Delayer interface {
	Wait(ctx context.Context) error
}

// Clock yields the current instant; tests pin it.
type Clock interface {
	Now() time.Time
}
