package di

import (
	"context"
	"fmt"
	"time"

	"StockPulse/internal/domain/repository"
	domsvc "StockPulse/internal/domain/service"
	"StockPulse/internal/handler/api"
	"StockPulse/internal/registry"
	internalrepo "StockPulse/internal/repository"
	"StockPulse/internal/service/newsapi"
	"StockPulse/internal/service/yahoo"
	"StockPulse/internal/services/sentiment"
	"StockPulse/internal/usecase"
	"StockPulse/pkg/cache"
	pkgch "StockPulse/pkg/clickhouse"
	"StockPulse/pkg/config"
	xhttp "StockPulse/pkg/http"
	pkgkafka "StockPulse/pkg/kafka"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/metrics"
	"StockPulse/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if err := client.InitSchema(ctx, []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", db),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.daily_bars (
            ticker String,
            date DateTime,
            open Float64,
            high Float64,
            low Float64,
            close Float64,
            volume Float64
        ) ENGINE=ReplacingMergeTree ORDER BY (ticker, date)`, db),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.news_articles (
            ticker String,
            source String,
            title String,
            description String,
            url String,
            published_at DateTime,
            sentiment_score Float64,
            sentiment_label String,
            scored UInt8,
            version DateTime
        ) ENGINE=ReplacingMergeTree(version) ORDER BY (ticker, url)`, db),
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideBarStore creates the ClickHouse bar store.
func ProvideBarStore(chClient *pkgch.Client, cfg *config.Config, l *applogger.Logger) repository.BarStore {
	store := internalrepo.NewCHBarStore(chClient, cfg.ClickHouse.Database+".daily_bars")
	store.SetLogger(l)
	return store
}

// ProvideArticleStore creates the ClickHouse article store.
func ProvideArticleStore(chClient *pkgch.Client, cfg *config.Config, l *applogger.Logger) repository.ArticleStore {
	store := internalrepo.NewCHArticleStore(chClient, cfg.ClickHouse.Database+".news_articles")
	store.SetLogger(l)
	return store
}

// ProvideArtifactStore creates the filesystem artifact store.
func ProvideArtifactStore(cfg *config.Config) (repository.ArtifactStore, error) {
	return internalrepo.NewFSArtifactStore(cfg.Trainer.ModelDir)
}

// ProvideCache creates the cache service: layered memory+Redis when Redis is
// enabled, memory-only otherwise.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	host, port := splitHostPort(cfg.Redis.Addr)
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(host),
		cache.WithRedisPort(port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(rc), nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is disabled.
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
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvidePublisher creates the event publisher for predictions and training
// summaries.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return internalrepo.NopPublisher{}
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideRegistry creates the in-memory model registry.
func ProvideRegistry() *registry.Registry {
	return registry.New()
}

// ProvidePriceSource creates the Yahoo daily bar source.
func ProvidePriceSource() domsvc.PriceSource {
	return yahoo.New()
}

// ProvideNewsSource creates the NewsAPI article source.
func ProvideNewsSource(cfg *config.Config) domsvc.NewsSource {
	opts := []newsapi.Option{}
	if cfg.NewsAPI.BaseURL != "" {
		opts = append(opts, newsapi.WithBaseURL(cfg.NewsAPI.BaseURL))
	}
	if cfg.NewsAPI.RPS > 0 {
		opts = append(opts, newsapi.WithRPS(cfg.NewsAPI.RPS))
	}
	return newsapi.New(cfg.NewsAPI.APIKey, opts...)
}

// ProvideSentimentScorer creates the lexicon sentiment scorer.
func ProvideSentimentScorer() domsvc.SentimentScorer {
	return sentiment.New()
}

// ProvideFeatureService creates the shared feature derivation gateway.
func ProvideFeatureService(bars repository.BarStore, articles repository.ArticleStore, cfg *config.Config) *usecase.FeatureService {
	return usecase.NewFeatureService(bars, articles, cfg.Pipeline.Benchmark)
}

// ProvideTrainer creates the model trainer.
func ProvideTrainer(
	feats *usecase.FeatureService,
	artifacts repository.ArtifactStore,
	reg *registry.Registry,
	c cache.Service,
	pub repository.Publisher,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.Trainer {
	return usecase.NewTrainer(feats, artifacts, reg, c, pub, m, l, cfg.Trainer.Budget)
}

// ProvidePredictor creates the live predictor.
func ProvidePredictor(
	feats *usecase.FeatureService,
	reg *registry.Registry,
	artifacts repository.ArtifactStore,
	c cache.Service,
	pub repository.Publisher,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.Predictor {
	return usecase.NewPredictor(feats, reg, artifacts, c, pub, m, l)
}

// ProvideBacktestRunner creates the backtest runner.
func ProvideBacktestRunner(
	feats *usecase.FeatureService,
	reg *registry.Registry,
	artifacts repository.ArtifactStore,
	pub repository.Publisher,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.BacktestRunner {
	return usecase.NewBacktestRunner(feats, reg, artifacts, pub, m, l)
}

// ProvideRecommender creates the rule-based recommender.
func ProvideRecommender(bars repository.BarStore, articles repository.ArticleStore, l *applogger.Logger) *usecase.Recommender {
	return usecase.NewRecommender(bars, articles, l)
}

// ProvidePipeline creates the batch pipeline.
func ProvidePipeline(
	prices domsvc.PriceSource,
	news domsvc.NewsSource,
	scorer domsvc.SentimentScorer,
	bars repository.BarStore,
	articles repository.ArticleStore,
	trainer *usecase.Trainer,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.Pipeline {
	return usecase.NewPipeline(prices, news, scorer, bars, articles, trainer, m, l,
		cfg.Pipeline.Benchmark, cfg.Pipeline.Companies)
}

// ProvideHandler creates the HTTP API handler.
func ProvideHandler(
	l *applogger.Logger,
	predictor *usecase.Predictor,
	backtester *usecase.BacktestRunner,
	recommender *usecase.Recommender,
	bars repository.BarStore,
	cfg *config.Config,
) xhttp.Handler {
	return api.NewHandler(l, predictor, backtester, recommender, bars, cfg.Pipeline.Tickers)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	reg *registry.Registry,
	artifacts repository.ArtifactStore,
	pipeline *usecase.Pipeline,
	handler xhttp.Handler,
	chClient *pkgch.Client,
	publisher repository.Publisher,
	producer *pkgkafka.Producer,
) *server.App {
	return server.New(cfg, l, reg, artifacts, pipeline, handler, chClient, publisher, producer)
}

// Container exposes the wired use cases for one-shot CLI commands.
type Container struct {
	Cfg        *config.Config
	Logger     *applogger.Logger
	Registry   *registry.Registry
	Artifacts  repository.ArtifactStore
	Pipeline   *usecase.Pipeline
	Trainer    *usecase.Trainer
	Predictor  *usecase.Predictor
	Backtester *usecase.BacktestRunner
	CH         *pkgch.Client
	Publisher  repository.Publisher
}

// Close releases infrastructure clients held by the container.
func (c *Container) Close() {
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			c.Logger.Warn("publisher close error", applogger.Error(err))
		}
	}
	if c.CH != nil {
		if err := c.CH.Close(); err != nil {
			c.Logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}
}

// ProvideContainer bundles the use cases for CLI commands.
func ProvideContainer(
	cfg *config.Config,
	l *applogger.Logger,
	reg *registry.Registry,
	artifacts repository.ArtifactStore,
	pipeline *usecase.Pipeline,
	trainer *usecase.Trainer,
	predictor *usecase.Predictor,
	backtester *usecase.BacktestRunner,
	chClient *pkgch.Client,
	publisher repository.Publisher,
) *Container {
	return &Container{
		Cfg:        cfg,
		Logger:     l,
		Registry:   reg,
		Artifacts:  artifacts,
		Pipeline:   pipeline,
		Trainer:    trainer,
		Predictor:  predictor,
		Backtester: backtester,
		CH:         chClient,
		Publisher:  publisher,
	}
}

func splitHostPort(addr string) (string, int) {
	host, port := "localhost", 6379
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			host = addr[:i]
			p := 0
			for _, r := range addr[i+1:] {
				if r < '0' || r > '9' {
					return host, port
				}
				p = p*10 + int(r-'0')
			}
			if p > 0 {
				port = p
			}
			return host, port
		}
	}
	if addr != "" {
		host = addr
	}
	return host, port
}
