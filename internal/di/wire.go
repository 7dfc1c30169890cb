//go:build wireinject
// +build wireinject

package di

import (
	"NewsPull/pkg/config"
	"NewsPull/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideWatchlist,

		// Infrastructure clients
		ProvideRedisCache,
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideDedupStore,
		ProvideStorage,
		ProvidePublisher,

		// Engine
		ProvideScorer,
		ProvideDisambiguator,
		ProvideProcessor,
		ProvideFeeds,
		ProvideRunner,
		ProvideKafkaArticlesHandler,

		// Edge
		ProvideHTTPHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
