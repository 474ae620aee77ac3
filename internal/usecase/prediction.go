package usecase

import (
	"context"
	"fmt"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	domsvc "StockCast/internal/domain/service"
	icache "StockCast/internal/service/cache"
	"StockCast/internal/services/simulation"
	applogger "StockCast/pkg/logger"
	"StockCast/pkg/util"
)

// PredictionUseCase is the async boundary around the pure generator: it
// normalizes input, simulates latency and unknown-symbol rejection, and
// caches results for the civil day they belong to.
type PredictionUseCase struct {
	gen      domsvc.Generator
	rejector domsvc.Rejector
	delay    domsvc.Delayer
	clock    domsvc.Clock
	loc      *time.Location
	cache    domrepo.ResultCache
	cacheTTL time.Duration
	horizons []int
	metrics  domrepo.Metrics
	log      *applogger.Logger
}

type PredictionOption func(*PredictionUseCase)

func WithRejector(r domsvc.Rejector) PredictionOption {
	return func(u *PredictionUseCase) { u.rejector = r }
}

func WithDelay(d domsvc.Delayer) PredictionOption {
	return func(u *PredictionUseCase) { u.delay = d }
}

func WithClock(c domsvc.Clock) PredictionOption {
	return func(u *PredictionUseCase) { u.clock = c }
}

// WithLocation sets the zone in which "today" is observed.
func WithLocation(loc *time.Location) PredictionOption {
	return func(u *PredictionUseCase) { u.loc = loc }
}

func WithResultCache(c domrepo.ResultCache, ttl time.Duration) PredictionOption {
	return func(u *PredictionUseCase) {
		u.cache = c
		u.cacheTTL = ttl
	}
}

func WithHorizons(h []int) PredictionOption {
	return func(u *PredictionUseCase) {
		if len(h) > 0 {
			u.horizons = h
		}
	}
}

func NewPredictionUseCase(gen domsvc.Generator, metrics domrepo.Metrics, log *applogger.Logger, opts ...PredictionOption) *PredictionUseCase {
	u := &PredictionUseCase{
		gen:      gen,
		rejector: simulation.NeverReject{},
		delay:    simulation.FixedDelay{},
		clock:    simulation.ZoneClock{},
		loc:      time.UTC,
		cache:    icache.Nop{},
		cacheTTL: 24 * time.Hour,
		horizons: models.DefaultHorizons,
		metrics:  metrics,
		log:      log,
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.log == nil {
		u.log = applogger.Nop()
	}
	return u
}

// Horizons lists the accepted forecast lengths.
func (u *PredictionUseCase) Horizons() []int { return u.horizons }

// Today is the civil date results are generated for right now.
func (u *PredictionUseCase) Today() time.Time {
	return util.TodayIn(u.clock.Now(), u.loc)
}

// Predict honours ctx only while the simulated delay runs; generation itself is not interruptible.
func (u *PredictionUseCase) Predict(ctx context.Context, ticker string, days int) (*models.PredictionResult, error) {
	start := time.Now()
	defer func() { u.metrics.RecordLatency("predict", time.Since(start).Seconds()) }()

	symbol, err := u.checkInput(ticker, days)
	if err != nil {
		u.metrics.RecordError("invalid_input")
		return nil, err
	}

	if err := u.delay.Wait(ctx); err != nil {
		u.metrics.RecordError("cancelled")
		return nil, fmt.Errorf("predict %s: %w", symbol, err)
	}

	if u.rejector.Reject(symbol) {
		u.metrics.RecordRejection(symbol)
		u.log.Info("ticker rejected", applogger.String("ticker", symbol))
		return nil, &models.UnknownTickerError{Ticker: symbol}
	}

	r, _ := u.generate(ctx, symbol, days, u.Today())
	return r, nil
}

// Precompute fills the cache for (ticker, days) today without delay or rejection.
// It reports whether a new result was generated.
func (u *PredictionUseCase) Precompute(ctx context.Context, ticker string, days int) (bool, error) {
	symbol, err := u.checkInput(ticker, days)
	if err != nil {
		return false, err
	}
	_, generated := u.generate(ctx, symbol, days, u.Today())
	return generated, nil
}

func (u *PredictionUseCase) checkInput(ticker string, days int) (string, error) {
	symbol := models.NormalizeTicker(ticker)
	if symbol == "" {
		return "", models.ErrEmptyTicker
	}
	if !util.ContainsInt(u.horizons, days) {
		return "", fmt.Errorf("%w: %d (supported: %v)", models.ErrInvalidHorizon, days, u.horizons)
	}
	return symbol, nil
}

func (u *PredictionUseCase) generate(ctx context.Context, symbol string, days int, today time.Time) (*models.PredictionResult, bool) {
	key := icache.Key(symbol, days, today)

	cached, ok, err := u.cache.Get(ctx, key)
	if err != nil {
		u.metrics.RecordError("cache_get")
		u.log.Warn("result cache read failed", applogger.String("key", key), applogger.Error(err))
	}
	u.metrics.RecordCache(ok)
	if ok {
		return cached, false
	}

	genStart := time.Now()
	r := u.gen.Generate(symbol, days, today)
	u.metrics.RecordLatency("generate", time.Since(genStart).Seconds())
	u.metrics.RecordPrediction(symbol, days, r.Advice.String())
	u.metrics.RecordLastPrice(symbol, r.LastActual())

	if err := u.cache.Set(ctx, key, &r, u.cacheTTL); err != nil {
		u.metrics.RecordError("cache_set")
		u.log.Warn("result cache write failed", applogger.String("key", key), applogger.Error(err))
	}

	u.log.Debug("prediction generated",
		applogger.String("ticker", symbol),
		applogger.Int("days", days),
		applogger.String("advice", r.Advice.String()),
		applogger.Float64("last_day", r.PredictedPriceForLastDay),
	)
	return &r, true
}

var _ domsvc.Predictor = (*PredictionUseCase)(nil)
