package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/clinicore/clinic-access/config"
	"github.com/clinicore/clinic-access/internal/devseed"
	"github.com/clinicore/clinic-access/internal/observability/statsd"
)

// Run assembles the application and blocks until shutdown. It owns the full
// lifecycle: config, connections, migrations, dev seeding, the HTTP server,
// and graceful teardown on SIGINT/SIGTERM.
func Run() error {
	logger := InitLogger()

	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := ConnectDB(DatabaseConfig{DBConfig: cfg.Postgres, Logger: logger})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer closeQuietly(logger, "database", db.Close)

	redisClient, err := ConnectRedis(DatabaseConfig{RedisConfig: cfg.Redis, Logger: logger})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer closeQuietly(logger, "redis", redisClient.Close)

	if cfg.Postgres.RunMigrationsOnStart {
		if migrateErr := RunMigrations(ctx, db, logger); migrateErr != nil {
			return migrateErr
		}
	}

	if cfg.IsDev {
		seedDev(ctx, db, logger)
	}

	metricsSink := buildMetricsSink(cfg.Metrics, logger)
	if metricsSink != nil {
		defer closeQuietly(logger, "statsd", metricsSink.Close)
	}

	auth := BuildAuthServices(AuthDeps{
		Config:      &cfg,
		DB:          db,
		RedisClient: redisClient,
		Metrics:     metricsSink,
		Logger:      logger,
	})

	server := StartHTTPServer(&HTTPServerConfig{
		Config:  &cfg,
		Auth:    auth,
		Metrics: sinkOrNil(metricsSink),
		Logger:  logger,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		return ShutdownHTTPServer(context.Background(), server, logger)
	})

	logger.Info("clinic-access started", "addr", cfg.HTTP.Addr, "dev", cfg.IsDev)
	return g.Wait()
}

// buildMetricsSink dials the StatsD endpoint when metrics are enabled. A dial
// failure downgrades to no metrics rather than blocking startup.
func buildMetricsSink(cfg config.MetricsConfig, logger *slog.Logger) *statsd.Client {
	if !cfg.IsEnabled() {
		return nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.StatsdAddress,
		Prefix:  "clinicaccess",
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return client
}

// sinkOrNil keeps a typed-nil *statsd.Client from sneaking into the interface
// field and defeating the router's nil check.
func sinkOrNil(client *statsd.Client) statsd.Sink {
	if client == nil {
		return nil
	}
	return client
}

// seedDev runs the development seeder. Seeding failures are logged, never
// fatal: a half-seeded dev database is still usable.
func seedDev(ctx context.Context, db *sql.DB, logger *slog.Logger) {
	if err := devseed.Run(ctx, devseed.NewServices(db), logger); err != nil {
		logger.WarnContext(ctx, "dev seeding incomplete", "error", err)
	}
}

func closeQuietly(logger *slog.Logger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.Warn("close failed", "component", name, "error", err)
	}
}
