package types

import (
	"context"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/eed-project/eedx/pkg/catalog"
	"github.com/eed-project/eedx/pkg/db"
	"github.com/eed-project/eedx/pkg/ingest"
	"github.com/eed-project/eedx/pkg/metrics"
	"github.com/eed-project/eedx/pkg/redis"
)

// App bundles everything the HTTP surface needs.
type App struct {
	Catalog *catalog.Catalog
	Store   db.Store
	Runner  *ingest.Runner
	Metrics *metrics.Metrics

	// RedisClient is nil unless REDIS_ENABLED is set.
	RedisClient *redis.Client

	// Cron drives scheduled ingestion when INGEST_CRON is set.
	Cron *cron.Cron

	Logger *zap.Logger
	Server *http.Server
}

// Start serves until the context is cancelled, then shuts down in order:
// HTTP server, cron, redis, store.
func (a *App) Start(ctx context.Context) {
	go func() { _ = a.Server.ListenAndServe() }()
	if a.Cron != nil {
		a.Cron.Start()
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = a.Server.Shutdown(shutdownCtx)
	if a.Cron != nil {
		<-a.Cron.Stop().Done()
	}
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Logger.Error("close redis client", zap.Error(err))
		}
	}
	a.Store.Close()
	a.Logger.Info("shutdown complete")
}
