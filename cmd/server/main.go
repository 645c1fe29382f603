package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskboard/backend/api/handler"
	"github.com/taskboard/backend/internal/config"
	"github.com/taskboard/backend/internal/middleware"
	"github.com/taskboard/backend/internal/router"
	"github.com/taskboard/backend/internal/services/lifecycle"
	"github.com/taskboard/backend/pkg/httpcontext"
	"github.com/taskboard/backend/pkg/logger"
	"github.com/taskboard/backend/repository"
	boltRepo "github.com/taskboard/backend/repository/bolt"
	"github.com/taskboard/backend/repository/jsonfile"
	taskUC "github.com/taskboard/backend/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	taskRepo, err := openRepository(cfg.Store)
	if err != nil {
		zapLogger.Fatal("failed to open task store",
			zap.String("backend", cfg.Store.Backend),
			zap.String("path", cfg.Store.Path),
			zap.Error(err))
	}
	manager.Register("task_store", func(ctx context.Context) error {
		return taskRepo.Close()
	})

	taskUseCase := taskUC.New(taskRepo, zapLogger)
	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Task:   apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(taskUseCase, cfg.Store.Backend, ctxAdapter, zapLogger),
	}

	r := router.New(handlers, middleware.AccessLog(zapLogger))

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("backend", cfg.Store.Backend))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

func openRepository(cfg config.StoreConfig) (repository.TaskRepository, error) {
	if cfg.Backend == config.BackendBolt {
		return boltRepo.Open(cfg.Path)
	}
	return jsonfile.Open(cfg.Path)
}
