package di

import (
	"context"
	"fmt"
	"time"

	"tsescan/internal/analytics"
	"tsescan/internal/domain/repository"
	"tsescan/internal/handler/api"
	internalrepo "tsescan/internal/repository"
	"tsescan/internal/service/tsetmc"
	"tsescan/internal/usecase"
	"tsescan/pkg/cache"
	pkgch "tsescan/pkg/clickhouse"
	"tsescan/pkg/config"
	xhttp "tsescan/pkg/http"
	pkgkafka "tsescan/pkg/kafka"
	"tsescan/pkg/logger"
	"tsescan/pkg/metrics"
	"tsescan/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when the
// store is disabled in config.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout.Std(), cfg.ClickHouse.ReadTimeout.Std(), cfg.ClickHouse.WriteTimeout.Std()),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime.Std()),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideBarStore creates the ClickHouse daily-bar store and its schema.
func ProvideBarStore(client *pkgch.Client, log *logger.Logger) (*internalrepo.ClickHouseBarStore, error) {
	if client == nil {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return internalrepo.NewClickHouseBarStore(ctx, client, log)
}

// ProvideCache creates the scan-result cache: layered memory+Redis when
// Redis is configured, plain memory otherwise.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemorySize)), nil
	}
	redisCache, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(redisCache, cfg.Cache.MemorySize), nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger.Std()),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout.Std(), cfg.Kafka.Producer.ReadTimeout.Std()),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideSignalPublisher creates the Kafka signal publisher, or nil when
// there is no producer or no signals topic.
func ProvideSignalPublisher(producer *pkgkafka.Producer, cfg *config.Config, log *logger.Logger) repository.SignalPublisher {
	if producer == nil || cfg.Kafka.SignalsTopic == "" {
		return nil
	}
	return internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.SignalsTopic, log)
}

// ProvideKafkaConsumer creates the bar-ingest consumer, or nil when
// ingestion is not configured.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled || cfg.Kafka.BarsTopic == "" {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin.Std(), cfg.Kafka.Consumer.BackoffMax.Std()),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideBarIngestHandler creates the handler for the bars topic. Requires
// a bar store to write into.
func ProvideBarIngestHandler(store *internalrepo.ClickHouseBarStore, m repository.Metrics, cfg *config.Config, log *logger.Logger) pkgkafka.MessageHandler {
	if store == nil || cfg.Kafka.BarsTopic == "" {
		return nil
	}
	return usecase.NewBarIngestHandler(cfg.Kafka.BarsTopic, store, m, log)
}

// ProvideSeriesLoader builds the source fallback chain in the configured
// order.
func ProvideSeriesLoader(cfg *config.Config, store *internalrepo.ClickHouseBarStore, log *logger.Logger) (repository.SeriesLoader, error) {
	var sources []repository.BarSource
	for _, name := range cfg.Sources.Order {
		switch name {
		case "remote":
			httpClient := xhttp.NewClient(xhttp.WithTimeout(cfg.Sources.Tsetmc.Timeout.Std()))
			sources = append(sources, tsetmc.NewClient(tsetmc.Config{
				BaseURL: cfg.Sources.Tsetmc.BaseURL,
				APIKey:  cfg.Sources.Tsetmc.APIKey,
			}, httpClient, log))
		case "clickhouse":
			if store == nil {
				log.Warn("clickhouse source configured but store disabled, skipping")
				continue
			}
			sources = append(sources, store)
		case "csv":
			sources = append(sources, internalrepo.NewCSVSource(cfg.Sources.CSVDir))
		}
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no usable bar sources configured")
	}
	return internalrepo.NewFallbackSource(log, sources...), nil
}

// ProvideAnalyzer creates the universe analyzer.
func ProvideAnalyzer(cfg *config.Config, m repository.Metrics) *usecase.UniverseAnalyzer {
	return usecase.NewUniverseAnalyzer(analytics.FromAppConfig(cfg), cfg.Scanner.Workers, m)
}

// ProvideScanService creates the scan service.
func ProvideScanService(
	cfg *config.Config,
	loader repository.SeriesLoader,
	analyzer *usecase.UniverseAnalyzer,
	cacheSvc cache.Service,
	pub repository.SignalPublisher,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.ScanService {
	return usecase.NewScanService(cfg, loader, analyzer, cacheSvc, pub, m, log)
}

// ProvideScheduler creates the periodic scan scheduler.
func ProvideScheduler(svc *usecase.ScanService, cfg *config.Config, log *logger.Logger) *usecase.Scheduler {
	return usecase.NewScheduler(svc, cfg.Scanner.Interval.Std(), log)
}

// ProvideHandler creates the HTTP handler with its websocket hub.
func ProvideHandler(svc *usecase.ScanService, analyzer *usecase.UniverseAnalyzer, log *logger.Logger) *api.Handler {
	return api.NewHandler(svc, analyzer, api.NewWSHub(log), log)
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	scheduler *usecase.Scheduler,
	svc *usecase.ScanService,
	consumer *pkgkafka.Consumer,
	ingest pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	cacheSvc cache.Service,
	producer *pkgkafka.Producer,
	handler *api.Handler,
) *server.App {
	return server.New(cfg, log, scheduler, svc, consumer, ingest, chClient, cacheSvc, producer, handler)
}
