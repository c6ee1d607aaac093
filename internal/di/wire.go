//go:build wireinject
// +build wireinject

package di

import (
	"StockPredict/pkg/config"
	"StockPredict/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideRegistry,
		ProvideMetrics,

		// Model and cache
		ProvideModelStore,
		ProvideForecastCache,

		// Use cases and transport
		ProvideForecastUseCase,
		ProvideForecastHandler,
		ProvideRateLimiter,

		// Application server
		ProvideApp,
	)
	return nil, nil, nil
}
