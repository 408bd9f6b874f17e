package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"running-events-backend/config"
	"running-events-backend/internal/cache"
	"running-events-backend/internal/database"
	"running-events-backend/internal/handler"
	"running-events-backend/internal/metrics"
	"running-events-backend/internal/model"
	"running-events-backend/internal/queue"
	"running-events-backend/internal/repository"
	"running-events-backend/internal/service"
	"running-events-backend/internal/storage"
	"running-events-backend/internal/worker"
	"running-events-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	defer logger.Sync()
	log := logger.WithComponent("server")

	cfg := config.LoadConfig()
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatal("Failed to apply schema", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	defer rdb.Close()

	disks, err := storage.NewRegistryFromConfig(ctx, cfg.Storage)
	if err != nil {
		log.Fatal("Failed to initialize media disks", zap.Error(err))
	}
	log.Info("media disks ready", zap.Strings("disks", disks.Names()))

	m := metrics.New()
	responseCache := cache.NewRedisResponseCache(rdb, "")
	jobStore := cache.NewCleanupJobStore(responseCache, cfg.Cache.JobReportTTL)

	eventRepo := repository.NewEventRepository(pool)
	mediaRepo := repository.NewMediaRepository(pool)

	mediaService := service.NewMediaService(mediaRepo, disks)
	eventService := service.NewEventService(eventRepo, mediaService, responseCache, cfg.Cache)
	cleanupService := service.NewCleanupService(eventRepo, mediaService, responseCache, m)

	var cleanupQueue queue.CleanupQueue
	if cfg.Cleanup.UseRedisQueue {
		cleanupQueue, err = queue.NewRedisStreamCleanupQueue(ctx, rdb, "", &queue.RedisStreamCleanupQueueConfig{
			OnDiscard: func(ctx context.Context, job *model.CleanupJob, retries int) {
				job.Status = model.CleanupJobFailed
				job.Error = fmt.Sprintf("discarded after %d deliveries", retries)
				if err := jobStore.Save(ctx, job); err != nil {
					log.Warn("failed to mark discarded cleanup job", zap.String("job_id", job.ID.String()), zap.Error(err))
				}
			},
		})
		if err != nil {
			log.Fatal("Failed to initialize cleanup queue", zap.Error(err))
		}
	} else {
		cleanupQueue = queue.NewCleanupQueue(cfg.Cleanup.QueueBuffer)
	}

	cleanupWorker := worker.NewCleanupWorker(cleanupService, cleanupQueue, jobStore)
	if err := cleanupWorker.Start(ctx); err != nil {
		log.Fatal("Failed to start cleanup worker", zap.Error(err))
	}

	router := gin.New()
	router.Use(gin.Recovery(), m.GinMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	handler.NewEventHandler(eventService).RegisterRoutes(router)
	handler.NewAdminHandler(eventService, cleanupService, cleanupQueue, jobStore, cfg.Server.AdminToken).RegisterRoutes(router)

	if cfg.Server.AdminToken == "" {
		log.Warn("ADMIN_TOKEN is empty, admin routes will reject every request")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}

	select {
	case <-cleanupWorker.Done():
	case <-shutdownCtx.Done():
		log.Warn("cleanup worker did not stop in time")
	}
}
