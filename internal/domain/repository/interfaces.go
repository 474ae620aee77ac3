package repository

import (
	"context"
	"time"

	"StockCast/internal/domain/models"
)

// ReplyPublisher delivers asynchronous prediction replies.
type ReplyPublisher interface {
	PublishReply(ctx context.Context, topic string, reply *models.PredictionReplyMessage) error
	Close() error
}

// ResultCache stores generated results for the day they were generated.
type ResultCache interface {
	Get(ctx context.Context, key string) (*models.PredictionResult, bool, error)
	Set(ctx context.Context, key string, r *models.PredictionResult, ttl time.Duration) error
}

type Metrics interface {
	RecordPrediction(ticker string, days int, advice string)
	RecordRejection(ticker string)
	RecordError(kind string)
	RecordLastPrice(ticker string, price float64)
	RecordLatency(op string, seconds float64)
	RecordCache(hit bool)
}
