package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/registry"
	"StockPulse/internal/usecase"
	pkgch "StockPulse/pkg/clickhouse"
	"StockPulse/pkg/config"
	xhttp "StockPulse/pkg/http"
	pkgkafka "StockPulse/pkg/kafka"
	applogger "StockPulse/pkg/logger"
)

// App encapsulates the serve-mode lifecycle: warm the model registry, run the
// HTTP API, optionally run the pipeline on a schedule, shut down gracefully.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	reg        *registry.Registry
	artifacts  domrepo.ArtifactStore
	pipeline   *usecase.Pipeline
	handler    xhttp.Handler
	httpServer *xhttp.Server
	chClient   *pkgch.Client
	publisher  domrepo.Publisher
	producer   *pkgkafka.Producer
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	reg *registry.Registry,
	artifacts domrepo.ArtifactStore,
	pipeline *usecase.Pipeline,
	handler xhttp.Handler,
	chClient *pkgch.Client,
	publisher domrepo.Publisher,
	producer *pkgkafka.Producer,
) *App {
	return &App{
		cfg:       cfg,
		l:         l,
		reg:       reg,
		artifacts: artifacts,
		pipeline:  pipeline,
		handler:   handler,
		chClient:  chClient,
		publisher: publisher,
		producer:  producer,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// aggregate error logs to Kafka when a producer is wired
	if a.producer != nil && a.cfg.Kafka.Topic != "" {
		a.l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          a.cfg.Kafka.Topic + ".logs",
			Publisher:      a.producer,
		})
	}

	a.reg.Warm(ctx, a.artifacts, a.cfg.Pipeline.Tickers, a.l)

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if a.pipeline != nil && a.cfg.Pipeline.Interval > 0 {
		go a.runPipelineLoop(ctx)
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("serving",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.Strings("tickers", a.cfg.Pipeline.Tickers),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// runPipelineLoop runs the pipeline immediately and then on the configured
// interval until the context is canceled.
func (a *App) runPipelineLoop(ctx context.Context) {
	a.pipeline.Run(ctx, a.cfg.Pipeline.Tickers)

	ticker := time.NewTicker(a.cfg.Pipeline.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			a.pipeline.Run(ctx, a.cfg.Pipeline.Tickers)
		case <-ctx.Done():
			return
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.l.Warn("publisher close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.l.RemoveCollector()
	a.l.Info("shutdown complete")
	return nil
}
