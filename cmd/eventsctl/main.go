package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"running-events-backend/config"
	"running-events-backend/internal/cache"
	"running-events-backend/internal/cli"
	"running-events-backend/internal/database"
	"running-events-backend/internal/repository"
	"running-events-backend/internal/service"
	"running-events-backend/internal/storage"
	"running-events-backend/pkg/logger"
)

func main() {
	defer logger.Sync()

	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(newCleanupService(cfg), cfg).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newCleanupService(cfg *config.Config) cli.ServiceFactory {
	return func(ctx context.Context) (service.CleanupService, func(), error) {
		pool, err := database.InitDatabase(&cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}

		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}

		disks, err := storage.NewRegistryFromConfig(ctx, cfg.Storage)
		if err != nil {
			rdb.Close()
			pool.Close()
			return nil, nil, err
		}

		eventRepo := repository.NewEventRepository(pool)
		mediaService := service.NewMediaService(repository.NewMediaRepository(pool), disks)
		svc := service.NewCleanupService(eventRepo, mediaService, cache.NewRedisResponseCache(rdb, ""), nil)

		closeFn := func() {
			rdb.Close()
			pool.Close()
		}
		return svc, closeFn, nil
	}
}
