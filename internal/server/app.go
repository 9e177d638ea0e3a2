// Package server wires the decision service together: storage, session
// caches, the audit trail and the gRPC endpoint. It also handles graceful
// shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/intelshare/internal/audit"
	"github.com/dmitrijs2005/intelshare/internal/authz"
	"github.com/dmitrijs2005/intelshare/internal/logging"
	"github.com/dmitrijs2005/intelshare/internal/permissions"
	"github.com/dmitrijs2005/intelshare/internal/server/catalog"
	"github.com/dmitrijs2005/intelshare/internal/server/config"
	"github.com/dmitrijs2005/intelshare/internal/server/grants"
	"github.com/dmitrijs2005/intelshare/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/intelshare/internal/server/users"
	"github.com/dmitrijs2005/intelshare/internal/session"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/intelshare/internal/server/grpc"
)

// seams for tests
var (
	openDB      = repomanager.Open
	newS3Client = func(ctx context.Context, st audit.S3Settings) (audit.Uploader, error) {
		return audit.NewS3Client(ctx, st)
	}
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	redis    *redis.Client
	archive  *audit.S3Archive
	server   *gs.GRPCServer
	shutdown []func(context.Context) error
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	app := &App{config: c, logger: logger}

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.db = db

	sessions, err := app.newSessions(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session init error: %w", err)
	}

	sink, err := app.newAuditSink(ctx)
	if err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("audit init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()

	az := authz.NewService(permissions.NewResolver(repos.Grants(db)), sessions, sink, logger)
	us := users.NewService(repos.Users(db), sessions, c, logger)
	cat := catalog.New(db, repos)
	gr := grants.NewService(db, repos, logger)

	app.server = gs.NewGRPCServer(c.EndpointAddrGRPC, logger, us, cat, az, gr, c.SecretKey)

	return app, nil
}

func (app *App) newSessions(ctx context.Context) (session.Provider, error) {
	if app.config.SessionBackend != "redis" {
		return session.NewMemoryProvider(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     app.config.RedisAddr,
		Password: app.config.RedisPassword,
		DB:       app.config.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	app.redis = client

	app.logger.Info(ctx, "Using redis sessions", "address", app.config.RedisAddr)
	return session.NewRedisProvider(client, app.config.SessionTTL), nil
}

func (app *App) newAuditSink(ctx context.Context) (audit.Sink, error) {
	logSink := audit.NewLogSink(app.logger)
	if app.config.AuditBucket == "" {
		return logSink, nil
	}

	client, err := newS3Client(ctx, audit.S3Settings{
		Region:       app.config.S3Region,
		AccessKey:    app.config.S3AccessKey,
		SecretKey:    app.config.S3SecretKey,
		BaseEndpoint: app.config.S3BaseEndpoint,
	})
	if err != nil {
		return nil, err
	}
	app.archive = audit.NewS3Archive(client, app.config.AuditBucket, app.config.AuditPrefix, app.config.AuditBatchSize)

	app.logger.Info(ctx, "Archiving decisions", "bucket", app.config.AuditBucket, "prefix", app.config.AuditPrefix)
	return audit.Multi(logSink, app.archive), nil
}

// close flushes the audit archive and releases connections.
func (app *App) close(ctx context.Context) {
	if app.archive != nil {
		if err := app.archive.Flush(ctx); err != nil {
			app.logger.Error(ctx, "audit flush failed", "error", err, "pending", app.archive.Pending())
		}
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error(ctx, "redis close failed", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close failed", "error", err)
		}
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close(context.WithoutCancel(ctx))
	app.logger.Info(ctx, "App stopped")
}
