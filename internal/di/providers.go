package di

import (
	"fmt"
	"time"

	"StockCast/internal/domain/repository"
	domsvc "StockCast/internal/domain/service"
	"StockCast/internal/handler/api"
	internalrepo "StockCast/internal/repository"
	icache "StockCast/internal/service/cache"
	"StockCast/internal/service/ratelimit"
	"StockCast/internal/services/forecast"
	"StockCast/internal/services/simulation"
	"StockCast/internal/usecase"
	pkgcache "StockCast/pkg/cache"
	"StockCast/pkg/config"
	xhttp "StockCast/pkg/http"
	pkgkafka "StockCast/pkg/kafka"
	applogger "StockCast/pkg/logger"
	"StockCast/pkg/metrics"
	"StockCast/pkg/server"
)

// ProvideLogger creates the structured logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New(nil)
}

// ProvideCacheBackend builds the configured store. "none" yields nil.
func ProvideCacheBackend(cfg *config.Config, log *applogger.Logger) (pkgcache.Service, error) {
	c := cfg.Cache
	switch c.Backend {
	case "none":
		return nil, nil
	case "memory":
		return pkgcache.NewMemoryCache(
			pkgcache.WithMemoryMaxSize(c.MemoryMaxSize),
			pkgcache.WithMemoryDefaultTTL(c.TTL),
		), nil
	}

	redisCache, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisAddr(c.Redis.Addr),
		pkgcache.WithRedisPassword(c.Redis.Password),
		pkgcache.WithRedisDB(c.Redis.DB),
		pkgcache.WithRedisPrefix(c.Redis.Prefix),
		pkgcache.WithRedisPool(c.Redis.PoolSize, c.Redis.MinIdleConns, c.Redis.PoolTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	log.Info("redis cache connected", applogger.String("addr", c.Redis.Addr), applogger.String("backend", c.Backend))

	if c.Backend == "layered" {
		return pkgcache.NewLayeredCache(redisCache,
			pkgcache.WithLayeredMemorySize(c.MemoryMaxSize),
			pkgcache.WithLayeredL1TTL(c.TTL),
		), nil
	}
	return redisCache, nil
}

func ProvideResultCache(backend pkgcache.Service) repository.ResultCache {
	if backend == nil {
		return icache.Nop{}
	}
	return icache.NewResultCache(backend)
}

// ProvideLocation resolves the zone in which the civil "today" is taken.
func ProvideLocation(cfg *config.Config) (*time.Location, error) {
	loc, err := time.LoadLocation(cfg.Prediction.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", cfg.Prediction.Timezone, err)
	}
	return loc, nil
}

func ProvideRejector(cfg *config.Config) domsvc.Rejector {
	if cfg.Prediction.UnknownRejectRate <= 0 {
		return simulation.NeverReject{}
	}
	return simulation.NewRandomRejector(cfg.Prediction.UnknownRejectRate, nil)
}

// ProvidePredictionUseCase wires the generator with the simulated boundary.
func ProvidePredictionUseCase(
	cfg *config.Config,
	cache repository.ResultCache,
	rejector domsvc.Rejector,
	loc *time.Location,
	m repository.Metrics,
	log *applogger.Logger,
) *usecase.PredictionUseCase {
	return usecase.NewPredictionUseCase(forecast.NewGenerator(), m, log,
		usecase.WithRejector(rejector),
		usecase.WithDelay(simulation.FixedDelay{D: cfg.Prediction.SimulatedDelay}),
		usecase.WithClock(simulation.ZoneClock{Loc: loc}),
		usecase.WithLocation(loc),
		usecase.WithResultCache(cache, cfg.Cache.TTL),
		usecase.WithHorizons(cfg.Prediction.Horizons),
	)
}

// ProvideRateLimiter returns nil when rate limiting is disabled.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 10*time.Minute)
}

// ProvideHTTPServer registers the REST and websocket handlers on one echo server.
func ProvideHTTPServer(cfg *config.Config, log *applogger.Logger, uc *usecase.PredictionUseCase, rl *ratelimit.Limiter) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	handlers := []xhttp.Handler{
		api.NewPredictionEchoHandler(log, uc, rl, cfg.Prediction.DefaultDays),
		api.NewPredictionStreamHandler(log, uc, rl, cfg.Prediction.DefaultDays),
	}
	return xhttp.NewServer(handlers,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetrics(metricsPath),
		xhttp.WithLogger(log),
	)
}

// ProvideKafka builds producer, consumer and request handler. It returns nil
// when kafka is disabled. Error logs are also shipped to the log topic.
func ProvideKafka(cfg *config.Config, uc *usecase.PredictionUseCase, m repository.Metrics, log *applogger.Logger) (*server.Kafka, error) {
	k := cfg.Kafka
	if !k.Enabled {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(k.Brokers),
		pkgkafka.WithCompression(k.Compression),
		pkgkafka.WithRequiredAcks(k.RequiredAcks),
		pkgkafka.WithBatchSize(k.Producer.BatchSize),
		pkgkafka.WithBatchBytes(k.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(k.Producer.Linger),
		pkgkafka.WithTimeouts(k.Producer.WriteTimeout, k.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(k.Producer.MaxAttempts),
		pkgkafka.WithAsync(k.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	consumer, err := pkgkafka.NewConsumer(log,
		pkgkafka.WithConsumerBrokers(k.Brokers),
		pkgkafka.WithConsumerGroupID(k.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(k.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(k.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(k.Consumer.RetryMax, k.Consumer.BackoffMin, k.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(k.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(k.Consumer.MinBytes, k.Consumer.MaxBytes),
	)
	if err != nil {
		_ = producer.Close()
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.LoggingHook(log, 5*time.Second))

	replies := internalrepo.NewKafkaReplyPublisher(producer)
	handler := usecase.NewKafkaPredictHandler(k.RequestTopic, k.ReplyTopic, uc, replies, m, log)

	if k.LogTopic != "" {
		log.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          k.LogTopic,
			Publisher:      producer,
		})
	}

	return &server.Kafka{Producer: producer, Consumer: consumer, Handler: handler}, nil
}

// ProvideWarmer returns nil when warm-up is disabled or there is no cache to
// warm. The cache backend doubles as the cross-replica lock.
func ProvideWarmer(cfg *config.Config, uc *usecase.PredictionUseCase, backend pkgcache.Service, log *applogger.Logger) *usecase.Warmer {
	if !cfg.Warmup.Enabled || backend == nil {
		return nil
	}
	return usecase.NewWarmer(uc, backend, cfg.Warmup.Timeout, log)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	srv *xhttp.Server,
	k *server.Kafka,
	warmer *usecase.Warmer,
	rl *ratelimit.Limiter,
	backend pkgcache.Service,
) *server.App {
	return server.New(cfg, log, srv, k, warmer, rl, backend)
}
