package main

import (
	"context"
	"log"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/todo-api/api/handler"
	"github.com/fastygo/todo-api/internal/config"
	"github.com/fastygo/todo-api/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/todo-api/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/todo-api/internal/infrastructure/redis"
	"github.com/fastygo/todo-api/internal/middleware"
	"github.com/fastygo/todo-api/internal/router"
	"github.com/fastygo/todo-api/internal/services/lifecycle"
	"github.com/fastygo/todo-api/pkg/httpcontext"
	"github.com/fastygo/todo-api/pkg/logger"
	"github.com/fastygo/todo-api/repository"
	pgRepo "github.com/fastygo/todo-api/repository/postgres"
	redisRepo "github.com/fastygo/todo-api/repository/redis"
	todoUC "github.com/fastygo/todo-api/usecase/todo"
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

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	if err := pgInfra.EnsureSchema(appCtx, pool, zapLogger); err != nil {
		zapLogger.Fatal("schema bootstrap failed", zap.Error(err))
	}

	var (
		todoCache   repository.TodoCache
		redisClient *goRedis.Client
	)
	if cfg.Redis.Enabled {
		redisClient, err = redisInfra.NewClient(cfg.Redis)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
		todoCache = redisRepo.NewTodoCache(redisClient, cfg.Cache.TTL)
	}

	mon := monitor.New(pool, redisClient, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	todoRepo := pgRepo.NewTodoRepository(pool)
	todoUseCase := todoUC.New(todoRepo, todoCache, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Todo:   apiHandler.NewTodoHandler(todoUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	handler := router.New(handlers,
		middleware.CORS(cfg.CORS.Origin),
		middleware.Recover(zapLogger, cfg.Debug),
	)

	server := &fasthttp.Server{
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
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
