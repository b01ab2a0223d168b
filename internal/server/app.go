// Package server initializes and runs the KeepSafe API server. It opens the
// database, runs migrations, wires the Redis cache and services, and drives
// the HTTP listener and the notification dispatcher until shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"keepsafe/internal/logging"
	"keepsafe/internal/server/api"
	"keepsafe/internal/server/cache"
	"keepsafe/internal/server/config"
	"keepsafe/internal/server/repositories/repomanager"
	"keepsafe/internal/server/services"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	cache         *cache.RedisCache
	notifications *services.NotificationService
	router        http.Handler
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewDefault()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	redisCache := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
	if err := redisCache.Ping(ctx); err != nil {
		return nil, fmt.Errorf("redis init error: %w", err)
	}

	us := services.NewUserService(db, rm, cfg)
	es := services.NewEntryService(db, rm, cfg)
	sender := services.NewLogPushSender(logger)
	ns := services.NewNotificationService(db, rm, redisCache, cfg, sender, logger)

	handler := api.NewHandler(us, es, ns, logger)
	router := api.NewRouter(handler, []byte(cfg.SecretKey))

	return &App{
		config:        cfg,
		logger:        logger,
		db:            db,
		cache:         redisCache,
		notifications: ns,
		router:        router,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.router,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		app.notifications.RunDispatcher(ctx, app.config.NotificationInterval)
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()

	if cerr := app.cache.Close(); cerr != nil {
		app.logger.Warn(ctx, "redis close error", "error", cerr)
	}
	if derr := app.db.Close(); derr != nil {
		app.logger.Warn(ctx, "db close error", "error", derr)
	}

	return err
}
