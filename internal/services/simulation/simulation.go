package simulation

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"StockCast/internal/domain/models"
)

// RandomRejector rejects symbols outside the popular list with probability Rate.
type RandomRejector struct {
	rate float64
	mu   sync.Mutex
	src  *rand.Rand
}

// NewRandomRejector uses src for draws; a nil src is seeded from the clock.
func NewRandomRejector(rate float64, src rand.Source) *RandomRejector {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &RandomRejector{rate: rate, src: rand.New(src)}
}

func (r *RandomRejector) Reject(ticker string) bool {
	if r.rate <= 0 || models.IsPopularTicker(ticker) {
		return false
	}
	r.mu.Lock()
	v := r.src.Float64()
	r.mu.Unlock()
	return v < r.rate
}

// NeverReject accepts every symbol.
type NeverReject struct{}

func (NeverReject) Reject(string) bool { return false }

// FixedDelay sleeps for D, returning early if ctx is done.
type FixedDelay struct {
	D time.Duration
}

func (f FixedDelay) Wait(ctx context.Context) error {
	if f.D <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(f.D)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ZoneClock reports the current time in a fixed location.
type ZoneClock struct {
	Loc *time.Location
}

func (c ZoneClock) Now() time.Time {
	if c.Loc == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.Loc)
}

// FixedClock always returns T.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }
