// Package server wires the application together: configuration, storage,
// the secret service, the HTTP endpoint and the background sweeper, with
// graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/hushdrop/hushdrop/internal/common"
	"github.com/hushdrop/hushdrop/internal/cryptox"
	"github.com/hushdrop/hushdrop/internal/logging"
	"github.com/hushdrop/hushdrop/internal/server/config"
	"github.com/hushdrop/hushdrop/internal/server/httpapi"
	"github.com/hushdrop/hushdrop/internal/server/repositories/repomanager"
	"github.com/hushdrop/hushdrop/internal/server/services"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	service *services.SecretService
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	key, err := resolveKey(cfg)
	if err != nil {
		return nil, err
	}

	svc := services.NewSecretService(db, rm, cfg, key, logger)

	return &App{config: cfg, logger: logger, db: db, service: svc}, nil
}

// resolveKey turns the configured key material into a 32-byte AES key. A
// 64-character hex string is taken verbatim; anything else is stretched
// with argon2id under the configured salt.
func resolveKey(cfg *config.Config) ([]byte, error) {
	if cfg.EncryptionKey == "" {
		return nil, fmt.Errorf("%w: encryption key is required", common.ErrValidation)
	}
	if len(cfg.EncryptionKey) == 2*cryptox.KeySize {
		if raw, err := hex.DecodeString(cfg.EncryptionKey); err == nil {
			return raw, nil
		}
	}
	return cryptox.DeriveKey([]byte(cfg.EncryptionKey), []byte(cfg.EncryptionKeySalt)), nil
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
	s := httpapi.NewServer(app.config, app.service, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startSweeper(ctx context.Context) {
	services.NewSweeper(app.service, app.config.SweepInterval, app.logger).Run(ctx)
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
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startSweeper(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
