//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/lawn-advisor/internal/bootstrap"
	"github.com/yanqian/lawn-advisor/internal/domain/session"
	"github.com/yanqian/lawn-advisor/internal/infra/config"
	httpiface "github.com/yanqian/lawn-advisor/internal/interface/http"
	"github.com/yanqian/lawn-advisor/pkg/logger"
	"github.com/yanqian/lawn-advisor/pkg/metrics"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		metrics.NewRecorder,
		provideRecommendationConfig,
		provideAnthropicClient,
		provideRecommendationCache,
		provideRecommendationService,
		provideOutcomeLog,
		provideSessionConfig,
		session.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
