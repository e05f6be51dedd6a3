// Package server wires the reference backend together: configuration, the
// SQLite user store, the user service and the HTTP API, plus graceful
// shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophsession/internal/logging"
	"github.com/dmitrijs2005/gophsession/internal/server/config"
	"github.com/dmitrijs2005/gophsession/internal/server/httpapi"
	"github.com/dmitrijs2005/gophsession/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophsession/internal/server/services"
	"github.com/dmitrijs2005/gophsession/internal/shared"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

// NewApp opens and migrates the database and builds the HTTP server.
// Without a configured secret a random one is generated, so sessions do not
// survive a restart.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := repomanager.OpenSQLite(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewSQLiteRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	secret := c.SecretKey
	if secret == "" {
		if secret, err = shared.MakeRandHexString(32); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("secret generation error: %w", err)
		}
		logger.Warn(ctx, "no secret key configured, sessions end on restart")
	}

	us, err := services.NewUserService(db, rm, []byte(secret), c.SessionValidity)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	srv := httpapi.NewServer(httpapi.Options{
		Address:        c.Addr,
		AllowedOrigins: c.AllowedOrigins,
		ImagesDir:      c.ImagesDir,
		SecureCookie:   c.SecureCookie,
	}, logger, us)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until a termination signal arrives or ctx is cancelled, then
// closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "origins", app.config.AllowedOrigins)

	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "db close error", "error", cerr)
	}
	return err
}
