package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Clark-Hu/gradeboard/internal/config"
	httpserver "github.com/Clark-Hu/gradeboard/internal/http"
	"github.com/Clark-Hu/gradeboard/internal/logging"
	"github.com/Clark-Hu/gradeboard/internal/render"
	"github.com/Clark-Hu/gradeboard/internal/repository"
	"github.com/Clark-Hu/gradeboard/internal/roster"
	"github.com/Clark-Hu/gradeboard/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("gradeboard exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	format, err := logging.ParseFormat(cfg.LogFormat)
	if err != nil {
		return err
	}
	logger := logging.New(logging.ParseLevel(cfg.LogLevel), os.Stdout, format).With(slog.String("service", "gradeboard"))
	slog.SetDefault(logger)

	var (
		students roster.StudentLister
		health   httpserver.HealthChecker
	)
	if cfg.StoreBackend == config.BackendPostgres {
		dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		st, err := store.New(dbCtx, cfg.DBURL, store.Options{
			MaxConns:               int32(cfg.DBMaxConns),
			MinConns:               int32(cfg.DBMinConns),
			MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
			MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
			ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
			StatementCacheCapacity: cfg.DBStatementCache,
			Logger:                 logger,
		})
		if err != nil {
			return err
		}
		defer st.Close()

		students = repository.New(st).Students
		health = st
	}

	source, err := roster.New(cfg, students, logger)
	if err != nil {
		return err
	}

	renderer, err := render.New()
	if err != nil {
		return err
	}

	logger.Info("starting gradeboard",
		slog.String("port", cfg.Port),
		slog.String("backend", cfg.StoreBackend),
	)
	server := httpserver.New(cfg, source, health, renderer, logger)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warn("graceful shutdown error", slog.Any("error", err))
	}
	return nil
}
