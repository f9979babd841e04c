package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/whatnewads/safeshift-sub006/internal/api"
	"github.com/whatnewads/safeshift-sub006/internal/app"
	"github.com/whatnewads/safeshift-sub006/internal/app/maintenance"
	"github.com/whatnewads/safeshift-sub006/internal/database"
	"github.com/whatnewads/safeshift-sub006/internal/notifications"
	"github.com/whatnewads/safeshift-sub006/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("safeshift-server", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	var configPath string
	fs.StringVar(&configPath, "config", "", "Path to configuration directory")

	if err := fs.Parse(args); err != nil {
		return err
	}

	var cfg *app.Config
	var err error
	if configPath != "" {
		cfg, err = app.LoadConfig(configPath)
	} else {
		cfg, err = app.LoadConfig()
	}
	if err != nil {
		return err
	}

	if err := app.ConfigureLogging(cfg.Server.LogLevel); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer logger.Sync() // best effort

	log := logger.WithModule("bootstrap")

	db, err := database.Open(cfg.Database.DatabaseOpenConfig())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrateAndSeed(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	store, err := notifications.NewGormStore(db)
	if err != nil {
		return err
	}

	policy := notifications.NewExpirationPolicy(cfg.Notifications.DefaultRetentionDays, cfg.Notifications.RetentionDays)
	manager, err := notifications.NewManager(store, notifications.WithPolicy(policy))
	if err != nil {
		return err
	}

	if cfg.Maintenance.Enabled {
		cleaner := maintenance.NewCleaner(manager, maintenance.WithCleanupSchedule(cfg.Maintenance.CleanupSchedule))
		if err := cleaner.Start(); err != nil {
			return fmt.Errorf("start maintenance: %w", err)
		}
		defer cleaner.Stop()
	}

	router, err := api.NewRouter(manager, cfg)
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return <-errCh
}
