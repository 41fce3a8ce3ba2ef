// Package server initializes and runs the key backup service: it wires the
// blob store, mailer, and services together, starts the HTTP endpoint, and
// handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/keybackup/internal/cryptox"
	"github.com/dmitrijs2005/keybackup/internal/logging"
	"github.com/dmitrijs2005/keybackup/internal/server/blob"
	"github.com/dmitrijs2005/keybackup/internal/server/config"
	"github.com/dmitrijs2005/keybackup/internal/server/httpx"
	"github.com/dmitrijs2005/keybackup/internal/server/mail"
	"github.com/dmitrijs2005/keybackup/internal/server/personas"
	"github.com/dmitrijs2005/keybackup/internal/server/users"
)

type App struct {
	config *config.Config
	logger logging.Logger
	router *httpx.Router
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	store, err := blob.NewS3Store(ctx, blob.S3Config{
		Region:       cfg.S3Region,
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
		Bucket:       cfg.S3Bucket,
		BaseEndpoint: cfg.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	var mailer mail.Mailer
	switch cfg.EmailMode {
	case "ses":
		mailer, err = mail.NewSESMailer(ctx, cfg.SESRegion, cfg.EmailSender)
		if err != nil {
			return nil, fmt.Errorf("mailer init error: %w", err)
		}
	default:
		mailer = mail.NewLogMailer(logger)
	}

	hasher := cryptox.NewHasher(cryptox.Params{
		Time:    cfg.Argon2Time,
		Memory:  cfg.Argon2Memory,
		Threads: cfg.Argon2Threads,
		KeyLen:  32,
		SaltLen: 16,
	})

	userSvc := users.NewService(users.NewBlobRepository(store), hasher, mailer, cfg.BaseURL, logger)
	personaSvc := personas.NewService(store, logger)

	router := httpx.NewRouter(logger, userSvc, personaSvc, cfg.MaxBodyBytes)

	return &App{config: cfg, logger: logger, router: router}, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.router,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, err.Error())
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.EndpointAddrHTTP)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
