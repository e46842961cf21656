package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	v1 "github.com/Emtiaz-ahmed-13/purrfecthub-server/cmd/api/router/v1"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/config"
	cacheAdapter "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/infrastructure/cache/adapter"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/infrastructure/database"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/infrastructure/logger"
	queueAdapter "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/infrastructure/queue/adapter"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/infrastructure/realtime"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/middleware"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/task"
	repoAdapter "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/persistence/repository/adapter"
)

func main() {
	// Load .env file; absence is fine in containerized deploys.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load()

	var (
		zlog *zap.Logger
		err  error
	)
	if cfg.Env == "development" {
		zlog, err = logger.NewDevelopment()
	} else {
		zlog, err = logger.New(cfg.LogLevel)
	}
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	cache, err := cacheAdapter.NewRedisCache(cfg.RedisURL)
	if err != nil {
		zlog.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer func() { _ = cache.Close() }()

	queueClient, err := queueAdapter.NewAsynqClient(cfg.RedisURL)
	if err != nil {
		zlog.Fatal("failed to build queue client", zap.Error(err))
	}
	defer func() { _ = queueClient.Close() }()

	queueServer, err := queueAdapter.NewAsynqServer(cfg.RedisURL, cfg.WorkerConcurrency, zlog)
	if err != nil {
		zlog.Fatal("failed to build queue server", zap.Error(err))
	}

	hub := realtime.NewHub()
	defer hub.Close()

	chatRepo := repoAdapter.NewPgChatRepository(pool)
	task.RegisterOfflineNotificationTask(queueServer, chatRepo, hub, cache, zlog)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(zlog))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1.RegisterRoutes(r, cfg, pool, cache, queueClient, hub, zlog)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := queueServer.Run(runCtx); err != nil {
			zlog.Error("queue server stopped", zap.Error(err))
		}
	}()

	go func() {
		zlog.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-runCtx.Done()
	zlog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}
