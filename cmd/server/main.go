package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"uniformledger/internal/config"
	"uniformledger/internal/repository"
	filerepo "uniformledger/internal/repository/file"
	"uniformledger/internal/repository/memory"
	"uniformledger/internal/repository/mongodb"
	"uniformledger/internal/repository/sheets"
	"uniformledger/internal/scheduler"
	"uniformledger/internal/server/handlers"
	"uniformledger/internal/server/router"
	authsvc "uniformledger/internal/service/auth"
	dashboardsvc "uniformledger/internal/service/dashboard"
	exportsvc "uniformledger/internal/service/export"
	recordssvc "uniformledger/internal/service/records"
	"uniformledger/pkg/clients/telegram"
	"uniformledger/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	repo, cleanup, err := openRepository(context.Background(), cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to open record store", zap.Error(err))
	}
	defer cleanup()

	var mirror sheets.Mirror
	if cfg.Sheets.CredentialsPath != "" {
		sheetMirror, err := sheets.NewGoogleSheetMirror(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets mirror", zap.Error(err))
		}
		mirror = sheetMirror
		baseLogger.Info("spreadsheet mirror enabled")
	}

	authService, err := authsvc.NewService(repo, cfg.Auth, baseLogger.Named("svc.auth"))
	if err != nil {
		baseLogger.Fatal("failed to init auth service", zap.Error(err))
	}

	recordsService := recordssvc.NewService(repo, mirror, baseLogger.Named("svc.records"))
	dashboardService := dashboardsvc.NewService(repo, baseLogger.Named("svc.dashboard"))
	exportService := exportsvc.NewService(repo, cfg.Backup.Dir, baseLogger.Named("svc.export"))

	var messenger telegram.Client
	if cfg.Telegram.BotToken != "" {
		messenger = telegram.NewClient(cfg.Telegram)
		baseLogger.Info("telegram backup delivery enabled")
	} else {
		baseLogger.Warn("telegram bot token missing, backups stay on disk only")
	}

	engine := router.New(router.Handlers{
		Auth:      handlers.NewAuthHandler(authService, baseLogger.Named("handlers.auth")),
		Records:   handlers.NewRecordsHandler(recordsService, baseLogger.Named("handlers.records")),
		Dashboard: handlers.NewDashboardHandler(dashboardService, baseLogger.Named("handlers.dashboard")),
		Export:    handlers.NewExportHandler(exportService, baseLogger.Named("handlers.export")),
	}, authService, baseLogger.Named("router"))

	sched := scheduler.New(cfg.Backup, exportService, messenger, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openRepository(ctx context.Context, cfg *config.Config, baseLogger *zap.Logger) (repository.Repository, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendMongo:
		store, err := mongodb.New(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := store.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}
		return store, cleanup, nil
	case config.BackendMemory:
		baseLogger.Warn("memory backend selected, records will not survive restarts")
		return memory.New(), func() {}, nil
	default:
		store, err := filerepo.Open(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}
