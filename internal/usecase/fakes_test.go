package usecase

import (
	"context"
	"sync"
	"time"

	"StockCast/internal/domain/models"
)

type fakeMetrics struct {
	mu          sync.Mutex
	predictions int
	rejections  []string
	errors      []string
	hits        int
	misses      int
	lastPrice   map[string]float64
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{lastPrice: map[string]float64{}}
}

func (m *fakeMetrics) RecordPrediction(string, int, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictions++
}

func (m *fakeMetrics) RecordRejection(ticker string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejections = append(m.rejections, ticker)
}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, kind)
}

func (m *fakeMetrics) RecordLastPrice(ticker string, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastPrice[ticker] = price
}

func (m *fakeMetrics) RecordLatency(string, float64) {}

func (m *fakeMetrics) RecordCache(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

type countingGenerator struct {
	inner interface {
		Generate(string, int, time.Time) models.PredictionResult
	}
	mu    sync.Mutex
	calls int
}

func (g *countingGenerator) Generate(ticker string, days int, today time.Time) models.PredictionResult {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	return g.inner.Generate(ticker, days, today)
}

type alwaysReject struct{}

func (alwaysReject) Reject(string) bool { return true }

type fakeReplies struct {
	mu      sync.Mutex
	topics  []string
	replies []*models.PredictionReplyMessage
	err     error
}

func (f *fakeReplies) PublishReply(_ context.Context, topic string, r *models.PredictionReplyMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.topics = append(f.topics, topic)
	f.replies = append(f.replies, r)
	return nil
}

func (f *fakeReplies) Close() error { return nil }

type fakeLocker struct {
	held     bool
	unlocked int
}

func (l *fakeLocker) TryLock(context.Context, string, time.Duration) (bool, error) {
	if l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

func (l *fakeLocker) Unlock(context.Context, string) error {
	l.held = false
	l.unlocked++
	return nil
}
