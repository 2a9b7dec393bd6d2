// Package server wires the job portal API together: PostgreSQL, Redis, S3,
// eSewa and SMTP behind the services, served over HTTP with a gRPC health
// endpoint next to it. Run blocks until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/jobportal/internal/logging"
	"github.com/dmitrijs2005/jobportal/internal/server/auth"
	"github.com/dmitrijs2005/jobportal/internal/server/config"
	"github.com/dmitrijs2005/jobportal/internal/server/esewa"
	"github.com/dmitrijs2005/jobportal/internal/server/httpapi"
	"github.com/dmitrijs2005/jobportal/internal/server/mailer"
	"github.com/dmitrijs2005/jobportal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/jobportal/internal/server/services"
	"github.com/dmitrijs2005/jobportal/internal/server/storage"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/jobportal/internal/server/grpc"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	redis        *redis.Client
	registry     *prometheus.Registry
	applications *services.ApplicationService
	httpServer   *httpapi.Server
	healthServer *gs.HealthServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}

	var denylist auth.Denylist
	if c.RedisAddr != "" {
		app.redis = redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		denylist = auth.NewRedisDenylist(app.redis)
	} else {
		logger.Warn(ctx, "no redis configured, token denylist kept in memory")
		denylist = auth.NewMemoryDenylist()
	}

	store, err := storage.NewS3Store(ctx, c)
	if err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("s3 init error: %w", err)
	}

	gateway := esewa.New(c.Esewa, nil)
	ml := mailer.New(c.SMTP, logger)

	app.applications = services.NewApplicationService(db, rm, store, ml, logger)
	svc := httpapi.Services{
		Users:        services.NewUserService(db, rm, denylist, c),
		Jobs:         services.NewJobService(db, rm, store, logger),
		Applications: app.applications,
		Plans:        services.NewPlanService(db, rm),
		Payments:     services.NewPaymentService(db, rm, gateway, c, logger),
	}

	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "jobportal"),
	)

	app.httpServer = httpapi.New(c, svc, logger, app.registry)
	app.healthServer = gs.NewHealthServer(c.HealthAddr, logger, db)

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP and gRPC until a signal arrives or either server fails,
// then waits for background mail and releases the connections.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.httpServer.Run(gctx)
	})
	g.Go(func() error {
		return app.healthServer.Run(gctx)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	app.applications.Wait()
	app.close(ctx)

	app.logger.Info(ctx, "App stopped")
	return err
}

func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error(ctx, "redis close", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
}
