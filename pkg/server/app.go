package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StockCast/internal/service/ratelimit"
	"StockCast/internal/usecase"
	pkgcache "StockCast/pkg/cache"
	"StockCast/pkg/config"
	xhttp "StockCast/pkg/http"
	pkgkafka "StockCast/pkg/kafka"
	applogger "StockCast/pkg/logger"
)

// Kafka groups the optional asynchronous request/reply transport.
type Kafka struct {
	Producer *pkgkafka.Producer
	Consumer *pkgkafka.Consumer
	Handler  pkgkafka.MessageHandler
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	kafka      *Kafka
	warmer     *usecase.Warmer
	limiter    *ratelimit.Limiter
	cache      pkgcache.Service
}

// New creates a new App. kafka, warmer, limiter and cache may be nil when
// the corresponding feature is disabled.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	httpServer *xhttp.Server,
	kafka *Kafka,
	warmer *usecase.Warmer,
	limiter *ratelimit.Limiter,
	cache pkgcache.Service,
) *App {
	if log == nil {
		log = applogger.Nop()
	}
	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: httpServer,
		kafka:      kafka,
		warmer:     warmer,
		limiter:    limiter,
		cache:      cache,
	}
}

// Run starts the application and blocks until interrupted or the HTTP
// listener fails.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.start(ctx); err != nil {
		a.shutdown()
		return err
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
	case err := <-a.httpServer.Errors():
		runErr = fmt.Errorf("http server: %w", err)
	}

	a.shutdown()
	return runErr
}

func (a *App) start(ctx context.Context) error {
	if a.kafka != nil && a.kafka.Consumer != nil && a.kafka.Handler != nil {
		a.kafka.Consumer.RegisterHandler(a.kafka.Handler)
		if err := a.kafka.Consumer.Start(); err != nil {
			return fmt.Errorf("kafka consumer: %w", err)
		}
		a.log.Info("prediction requests consumer started", applogger.String("topic", a.kafka.Handler.Topic()))
	}

	if a.warmer != nil {
		if err := a.warmer.Start(a.cfg.Warmup.Schedule); err != nil {
			return err
		}
		go func() {
			wctx, cancel := context.WithTimeout(ctx, a.cfg.Warmup.Timeout)
			defer cancel()
			if _, err := a.warmer.RunOnce(wctx); err != nil {
				a.log.Warn("startup warm-up incomplete", applogger.Error(err))
			}
		}()
	}

	if a.limiter != nil {
		go a.sweepLimiter(ctx)
	}

	return a.httpServer.Start()
}

func (a *App) sweepLimiter(ctx context.Context) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := a.limiter.Sweep(); n > 0 {
				a.log.Debug("rate limiter swept", applogger.Int("removed", n), applogger.Int("active", a.limiter.Len()))
			}
		}
	}
}

// shutdown stops intake first, then background jobs, then shared clients.
func (a *App) shutdown() {
	a.log.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.kafka != nil && a.kafka.Consumer != nil {
		if err := a.kafka.Consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.warmer != nil {
		a.warmer.Stop()
	}

	// flushes aggregated errors through the producer, so it goes before Close
	a.log.RemoveCollector()

	if a.kafka != nil && a.kafka.Producer != nil {
		if err := a.kafka.Producer.Close(); err != nil {
			a.log.Warn("kafka producer close error", applogger.Error(err))
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
}
