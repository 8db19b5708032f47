// Package api assembles the eedx HTTP application: the read API over
// persisted facts, the ingestion trigger boundary, and the optional cron
// driven refresh.
package api

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/eed-project/eedx/app/api/types"
	"github.com/eed-project/eedx/pkg/catalog"
	"github.com/eed-project/eedx/pkg/db/postgres"
	"github.com/eed-project/eedx/pkg/db/store"
	"github.com/eed-project/eedx/pkg/ingest"
	"github.com/eed-project/eedx/pkg/logging"
	"github.com/eed-project/eedx/pkg/metrics"
	"github.com/eed-project/eedx/pkg/redis"
	"github.com/eed-project/eedx/pkg/utils"
	"github.com/eed-project/eedx/pkg/worldbank"
)

// Initialize wires the application from environment configuration.
func Initialize(ctx context.Context) *types.App {
	logger, err := logging.New()
	if err != nil {
		panic(err)
	}

	cat, err := catalog.Load(
		utils.Env("COUNTRIES_CSV", "data/Mcountries.csv"),
		utils.Env("INDICATORS_CSV", "data/Mindicators.csv"),
	)
	if err != nil {
		logger.Fatal("unable to load reference catalog", zap.Error(err))
	}
	logger.Info("reference catalog loaded",
		zap.Int("countries", len(cat.Countries())),
		zap.Int("indicators", len(cat.Indicators())))

	client, err := postgres.New(ctx, logger)
	if err != nil {
		logger.Fatal("unable to connect to postgres", zap.Error(err))
	}

	st := store.New(client, logger)
	if err := st.InitializeDB(ctx); err != nil {
		logger.Fatal("unable to initialize database schema", zap.Error(err))
	}

	m := metrics.New()

	var redisClient *redis.Client
	if utils.EnvBool("REDIS_ENABLED", false) {
		redisClient, err = redis.NewClient(ctx, logger)
		if err != nil {
			logger.Warn("redis unavailable, run events disabled", zap.Error(err))
			redisClient = nil
		}
	}

	runnerOpts := []ingest.Option{
		ingest.WithMetrics(m),
		ingest.WithDiagnosticsDir(utils.Env("DIAG_DIR", "diagnostics")),
	}
	if redisClient != nil {
		runnerOpts = append(runnerOpts, ingest.WithEvents(redisClient))
	}

	runner := ingest.NewRunner(logger, cat, worldbank.NewClient(logger), st, runnerOpts...)

	app := &types.App{
		Catalog:     cat,
		Store:       st,
		Runner:      runner,
		Metrics:     m,
		RedisClient: redisClient,
		Logger:      logger,
	}

	if spec := utils.Env("INGEST_CRON", ""); spec != "" {
		if err := setupScheduler(ctx, app, spec); err != nil {
			logger.Fatal("unable to set up ingestion schedule", zap.Error(err))
		}
	}

	return app
}

// setupScheduler registers a cron entry that re-runs ingestion over the
// configured year window. The runner's single-flight guard turns an overlap
// into a logged skip.
func setupScheduler(ctx context.Context, app *types.App, spec string) error {
	startYear := utils.EnvInt("EEDX_START_YEAR", 2010)
	endYear := utils.EnvInt("EEDX_END_YEAR", 2019)

	app.Cron = cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	_, err := app.Cron.AddFunc(spec, func() {
		if _, err := app.Runner.TryStart(ctx, startYear, endYear); err != nil {
			app.Logger.Warn("scheduled ingestion skipped", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	app.Logger.Info("ingestion schedule registered", zap.String("cron", spec),
		zap.Int("start_year", startYear), zap.Int("end_year", endYear))
	return nil
}
