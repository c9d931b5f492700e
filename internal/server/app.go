// Package server initializes and runs the auth service: it opens the user
// directory, connects to NATS, wires the service and its collaborators, and
// handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dkuznecov/authgate/internal/cryptox"
	"github.com/dkuznecov/authgate/internal/logging"
	"github.com/dkuznecov/authgate/internal/server/config"
	"github.com/dkuznecov/authgate/internal/server/notifications"
	"github.com/dkuznecov/authgate/internal/server/repositories/repomanager"
	"github.com/dkuznecov/authgate/internal/server/services"
	"github.com/dkuznecov/authgate/internal/server/transport/natsrpc"
	"github.com/nats-io/nats.go"
	"github.com/sethvargo/go-retry"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	nc          *nats.Conn
	dispatcher  *notifications.Dispatcher
	authService *services.AuthService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := repomanager.OpenDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	nc, err := connectNATS(ctx, cfg.EndpointAddrNATS)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("nats init error: %w", err)
	}

	sink := notifications.NewNATSSink(nc, cfg.SubjectPrefix)
	dispatcher := notifications.NewDispatcher(sink, logger, cfg.EventQueueSize)

	hasher := cryptox.NewPasswordHasher(cryptox.DefaultCost)
	authService := services.NewAuthService(db, m, hasher, dispatcher, logger, cfg)

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		nc:          nc,
		dispatcher:  dispatcher,
		authService: authService,
	}, nil
}

func connectNATS(ctx context.Context, url string) (*nats.Conn, error) {
	var nc *nats.Conn

	backoff := retry.WithMaxRetries(5, retry.NewFibonacci(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		nc, err = nats.Connect(url, nats.MaxReconnects(-1))
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return nc, nil
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

func (app *App) startRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := natsrpc.NewServer(app.nc, app.authService, app.logger, app.config.SubjectPrefix, app.config.QueueGroup)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	// Subscriptions are drained; flush pending events, then release the
	// connection and the directory.
	app.dispatcher.Close()
	if err := app.nc.Drain(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}

	app.logger.Info(ctx, "Stopped")
}
