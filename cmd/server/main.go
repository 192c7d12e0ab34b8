package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kzhou/taskflow/internal/api"
	"github.com/kzhou/taskflow/internal/application/dispatcher"
	"github.com/kzhou/taskflow/internal/application/service"
	appwf "github.com/kzhou/taskflow/internal/application/workflow"
	"github.com/kzhou/taskflow/internal/config"
	"github.com/kzhou/taskflow/internal/infrastructure/persistence/repository"
	"github.com/kzhou/taskflow/internal/infrastructure/persistence/sqlite"
	"github.com/kzhou/taskflow/internal/infrastructure/worker"
	"github.com/kzhou/taskflow/pkg/database"
	"github.com/kzhou/taskflow/pkg/utils"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting taskflow server", zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	txManager := sqlite.NewDB(db.DB, logger)
	itemRepo := repository.NewWorkItemRepository(db.DB, logger)
	historyRepo := repository.NewHistoryRepository(db.DB, logger)
	notificationRepo := repository.NewNotificationRepository(db.DB, logger)

	kvLogger := utils.NewKVLogger(logger)

	eventDispatcher := dispatcher.New(dispatcher.WithLogger(kvLogger))
	defer eventDispatcher.Close()

	notifications := service.NewNotificationService(notificationRepo, kvLogger)
	notifications.Register(eventDispatcher)

	activityCatalog := appwf.NewActivityCatalog()
	taskRequestCatalog := appwf.NewTaskRequestCatalog()

	activityOrchestrator := appwf.NewOrchestrator(
		activityCatalog, itemRepo, historyRepo, txManager,
		appwf.WithDispatcher(eventDispatcher),
	)
	taskRequestOrchestrator := appwf.NewOrchestrator(
		taskRequestCatalog, itemRepo, historyRepo, txManager,
		appwf.WithDispatcher(eventDispatcher),
	)

	activityService := service.NewWorkItemService(activityCatalog, itemRepo, eventDispatcher, kvLogger)
	taskRequestService := service.NewWorkItemService(taskRequestCatalog, itemRepo, eventDispatcher, kvLogger)

	workers := worker.NewManager(logger)
	workers.Register(worker.NewDeliveryWorker(notifications, worker.NewLogDeliverer(logger), logger))
	if err := workers.StartAll(context.Background()); err != nil {
		logger.Fatal("Failed to start workers", zap.Error(err))
	}
	defer workers.StopAll()

	router := api.NewRouter(
		api.NewHandler(activityService, activityOrchestrator, logger),
		api.NewHandler(taskRequestService, taskRequestOrchestrator, logger),
		logger,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
}
