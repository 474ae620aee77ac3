package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"StockCast/internal/domain/models"
	applogger "StockCast/pkg/logger"
	"StockCast/pkg/util"
)

// Precomputer fills the result cache without simulated latency.
type Precomputer interface {
	Precompute(ctx context.Context, ticker string, days int) (bool, error)
	Horizons() []int
	Today() time.Time
}

// Locker guards a warm-up run across replicas sharing a cache.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

type WarmupStats struct {
	Generated int
	Cached    int
	Failed    int
	Skipped   bool
	Duration  time.Duration
}

// Warmer precomputes the popular tickers for every horizon once a day.
type Warmer struct {
	pre      Precomputer
	lock     Locker
	tickers  []string
	timeout  time.Duration
	cron     *cron.Cron
	log      *applogger.Logger
	progress func(done, total int)
}

func NewWarmer(pre Precomputer, lock Locker, timeout time.Duration, log *applogger.Logger) *Warmer {
	if log == nil {
		log = applogger.Nop()
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Warmer{
		pre:     pre,
		lock:    lock,
		tickers: models.PopularSymbols(),
		timeout: timeout,
		cron:    cron.New(cron.WithSeconds()),
		log:     log,
	}
}

// OnProgress registers a callback invoked after each precomputed pair.
func (w *Warmer) OnProgress(fn func(done, total int)) { w.progress = fn }

// Start schedules RunOnce with a six-field cron expression.
func (w *Warmer) Start(schedule string) error {
	if schedule == "" {
		schedule = "0 5 0 * * *"
	}

	_, err := w.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		defer cancel()
		if _, err := w.RunOnce(ctx); err != nil {
			w.log.Error("scheduled warm-up failed", applogger.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule warm-up %q: %w", schedule, err)
	}

	w.cron.Start()
	w.log.Info("warm-up scheduler started", applogger.String("schedule", schedule))
	return nil
}

// Stop stops the scheduler and waits for a running job.
func (w *Warmer) Stop() {
	<-w.cron.Stop().Done()
	w.log.Info("warm-up scheduler stopped")
}

// RunOnce precomputes every popular ticker for every horizon. When a lock is
// configured and another replica holds today's lock, the run is skipped.
func (w *Warmer) RunOnce(ctx context.Context) (WarmupStats, error) {
	start := time.Now()
	var stats WarmupStats

	if w.lock != nil {
		key := "warmup:" + util.FormatDate(w.pre.Today())
		ok, err := w.lock.TryLock(ctx, key, w.timeout)
		if err != nil {
			return stats, fmt.Errorf("acquire warm-up lock: %w", err)
		}
		if !ok {
			stats.Skipped = true
			w.log.Info("warm-up already running elsewhere", applogger.String("lock", key))
			return stats, nil
		}
		defer func() {
			if err := w.lock.Unlock(context.Background(), key); err != nil {
				w.log.Warn("release warm-up lock", applogger.Error(err))
			}
		}()
	}

	horizons := w.pre.Horizons()
	total := len(w.tickers) * len(horizons)
	done := 0
	for _, ticker := range w.tickers {
		for _, days := range horizons {
			if err := ctx.Err(); err != nil {
				stats.Duration = time.Since(start)
				return stats, fmt.Errorf("warm-up interrupted after %d/%d: %w", done, total, err)
			}

			generated, err := w.pre.Precompute(ctx, ticker, days)
			switch {
			case err != nil:
				stats.Failed++
				w.log.Warn("precompute failed",
					applogger.String("ticker", ticker),
					applogger.Int("days", days),
					applogger.Error(err),
				)
			case generated:
				stats.Generated++
			default:
				stats.Cached++
			}

			done++
			if w.progress != nil {
				w.progress(done, total)
			}
		}
	}

	stats.Duration = time.Since(start)
	w.log.Info("warm-up completed",
		applogger.Int("generated", stats.Generated),
		applogger.Int("cached", stats.Cached),
		applogger.Int("failed", stats.Failed),
		applogger.Ints("horizons", horizons),
		applogger.Duration("duration_ms", stats.Duration),
	)
	return stats, nil
}
