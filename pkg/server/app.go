package server

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"tsescan/internal/handler/api"
	"tsescan/internal/usecase"
	"tsescan/pkg/cache"
	pkgch "tsescan/pkg/clickhouse"
	"tsescan/pkg/config"
	xhttp "tsescan/pkg/http"
	pkgkafka "tsescan/pkg/kafka"
	applogger "tsescan/pkg/logger"
)

// App encapsulates the application lifecycle: HTTP server, scan scheduler,
// and the optional Kafka ingest consumer.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	scheduler  *usecase.Scheduler
	svc        *usecase.ScanService
	consumer   *pkgkafka.Consumer
	ingest     pkgkafka.MessageHandler
	chClient   *pkgch.Client
	cacheSvc   cache.Service
	producer   *pkgkafka.Producer
	handler    *api.Handler
	httpServer *xhttp.Server
}

// New creates an App with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	scheduler *usecase.Scheduler,
	svc *usecase.ScanService,
	consumer *pkgkafka.Consumer,
	ingest pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	cacheSvc cache.Service,
	producer *pkgkafka.Producer,
	handler *api.Handler,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		scheduler: scheduler,
		svc:       svc,
		consumer:  consumer,
		ingest:    ingest,
		chClient:  chClient,
		cacheSvc:  cacheSvc,
		producer:  producer,
		handler:   handler,
	}
}

// ScanOnce runs a single scan over the configured universe and writes the
// result as JSON to stdout. Used by the -scan command-line mode.
func (a *App) ScanOnce(ctx context.Context) error {
	summary, err := a.svc.RunOnce(ctx, nil, 0)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return err
	}
	return a.close(ctx)
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout.Std(), a.cfg.Server.WriteTimeout.Std(), a.cfg.Server.ShutdownTimeout.Std()),
		xhttp.WithMetricsPath(a.cfg.Metrics.Path),
	)

	a.scheduler.Start()

	if a.consumer != nil && a.ingest != nil {
		a.consumer.RegisterHandler(a.ingest)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.log.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.log.Info("kafka consumer started", applogger.String("topic", a.ingest.Topic()))
	}

	if err := a.httpServer.Start(); err != nil {
		return err
	}
	a.log.Info("scanner running",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.Strings("symbols", a.cfg.Scanner.Symbols))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout.Std())
	defer cancel()

	if err := a.scheduler.Shutdown(ctx); err != nil {
		a.log.Warn("scheduler stop error", applogger.Error(err))
	}
	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.log.Warn("http shutdown error", applogger.Error(err))
		}
	}
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}
	if err := a.close(ctx); err != nil {
		return err
	}
	a.log.Info("shutdown complete")
	return nil
}

// close releases infrastructure clients.
func (a *App) close(_ context.Context) error {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.log.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.cacheSvc != nil {
		if err := a.cacheSvc.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}
	return nil
}
