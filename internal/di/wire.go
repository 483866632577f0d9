//go:build wireinject
// +build wireinject

package di

import (
	"tsescan/pkg/config"
	"tsescan/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation in wire_gen.go.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideCache,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideBarStore,
		ProvideSignalPublisher,
		ProvideSeriesLoader,

		// Use cases
		ProvideAnalyzer,
		ProvideScanService,
		ProvideScheduler,
		ProvideBarIngestHandler,

		// Serving
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
