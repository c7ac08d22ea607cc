//go:build wireinject
// +build wireinject

package di

import (
	"StockPulse/pkg/config"
	"StockPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideCache,

		// Repositories
		ProvideBarStore,
		ProvideArticleStore,
		ProvideArtifactStore,
		ProvidePublisher,

		// External sources
		ProvidePriceSource,
		ProvideNewsSource,
		ProvideSentimentScorer,

		// Use cases
		ProvideRegistry,
		ProvideFeatureService,
		ProvideTrainer,
		ProvidePredictor,
		ProvideBacktestRunner,
		ProvideRecommender,
		ProvidePipeline,

		// HTTP
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}

// InitializeContainer wires the use cases for one-shot CLI commands.
func InitializeContainer(cfg *config.Config) (*Container, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideCache,

		ProvideBarStore,
		ProvideArticleStore,
		ProvideArtifactStore,
		ProvidePublisher,

		ProvidePriceSource,
		ProvideNewsSource,
		ProvideSentimentScorer,

		ProvideRegistry,
		ProvideFeatureService,
		ProvideTrainer,
		ProvidePredictor,
		ProvideBacktestRunner,
		ProvidePipeline,

		ProvideContainer,
	)
	return &Container{}, nil
}
