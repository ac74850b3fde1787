// Package server initializes and runs the auth service. It builds the
// configuration, storage, mail transport, and HTTP surface in order, so no
// request-handling entry point is reachable before the whole chain is
// ready, and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/datalyst-app/authd/internal/logging"
	"github.com/datalyst-app/authd/internal/server/accounts"
	"github.com/datalyst-app/authd/internal/server/config"
	"github.com/datalyst-app/authd/internal/server/mail"
	"github.com/datalyst-app/authd/internal/server/rest"
	"github.com/datalyst-app/authd/internal/server/shared/db"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	accountService *accounts.Service
}

// NewApp wires the application together. It fails fast on incomplete
// configuration or an unreachable store; the HTTP listener is only started
// later by Run, after everything here has succeeded.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	manager, err := db.NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	var sender mail.Sender
	if cfg.SMTPConfigured() {
		sender, err = mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
		if err != nil {
			return nil, fmt.Errorf("mail init error: %w", err)
		}
	} else {
		logger.Warn(ctx, "SMTP not configured, recovery emails will be logged only")
		sender = mail.NewLogSender(logger)
	}

	accountService := accounts.NewService(manager.Accounts(), sender, logger, cfg)

	return &App{config: cfg, logger: logger, accountService: accountService}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewServer(app.config.EndpointAddrHTTP, app.logger, app.accountService, app.config.SecretKey)

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
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
