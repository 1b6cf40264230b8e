// Package server initializes and runs the main application server.
// It opens the database, runs migrations, wires the services, starts the
// HTTP API, and sweeps expired OTP challenges in the background.
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

	"taskdesk/internal/logging"
	"taskdesk/internal/server/auth"
	"taskdesk/internal/server/config"
	"taskdesk/internal/server/httpapi"
	"taskdesk/internal/server/notify"
	"taskdesk/internal/server/repositories/repomanager"
	"taskdesk/internal/server/services"
)

// otpSweepInterval is how often expired OTP challenges are removed. The
// lookup already ignores expired rows; the sweep only keeps the table small.
const otpSweepInterval = time.Minute

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repos       repomanager.RepositoryManager
	authService *services.AuthService
	taskService *services.TaskService
	httpServer  *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	tokens := auth.NewTokenManager(
		[]byte(cfg.AccessTokenSecret),
		[]byte(cfg.RefreshTokenSecret),
		[]byte(cfg.ResetTokenSecret),
		cfg.AccessTokenValidityDuration,
		cfg.RefreshTokenValidityDuration,
		cfg.ResetTokenValidityDuration,
	)

	notifier, err := notify.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom)
	if err != nil {
		return nil, fmt.Errorf("notifier init error: %w", err)
	}

	as := services.NewAuthService(db, repos, tokens, notifier, logger, cfg)
	ts := services.NewTaskService(db, repos, logger)
	hs := httpapi.NewServer(cfg.Addr, logger, as, ts, tokens, cfg.CookieSecure)

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		repos:       repos,
		authService: as,
		taskService: ts,
		httpServer:  hs,
	}, nil
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
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// runOtpJanitor periodically deletes expired OTP rows, the relational analog
// of a document-store TTL index.
func (app *App) runOtpJanitor(ctx context.Context) {
	ticker := time.NewTicker(otpSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.repos.Otps(app.db).DeleteExpired(ctx, app.config.OtpValidityDuration)
			if err != nil {
				app.logger.Warn(ctx, "otp sweep failed", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "swept expired otps", "count", n)
			}
		}
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
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.runOtpJanitor(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
