package testutil

import (
	"context"
	"fmt"
	"log"
	"testing"

	"running-events-backend/config"
	"running-events-backend/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func Setup() (*pgxpool.Pool, *redis.Client, func(), error) {
	cfg := config.LoadTestConfig()

	testDB, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize test database: %v", err)
	}

	if err := database.EnsureSchema(context.Background(), testDB); err != nil {
		testDB.Close()
		return nil, nil, nil, fmt.Errorf("failed to apply test schema: %v", err)
	}

	log.Println("Test database connected successfully")

	testRdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		testDB.Close()
		return nil, nil, nil, fmt.Errorf("failed to initialize redis: %v", err)
	}
	log.Println("Test redis connected successfully")

	cleanup := func() {
		testDB.Close()
		log.Println("Test database closed")

		testRdb.Close()
		log.Println("Test redis closed")
	}

	return testDB, testRdb, cleanup, nil
}

// SetupRedisOnly 僅初始化 Redis，用於只依賴 Redis 的測試（如 cache、queue 整合測試）
func SetupRedisOnly() (*redis.Client, func(), error) {
	cfg := config.LoadTestConfig()
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize redis: %v", err)
	}
	cleanup := func() { rdb.Close() }
	return rdb, cleanup, nil
}

// RequireRedis 取得整合測試用的 Redis，連不上就跳過測試
func RequireRedis(t *testing.T) *redis.Client {
	t.Helper()
	rdb, cleanup, err := SetupRedisOnly()
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(cleanup)
	if err := rdb.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("Failed to flush redis: %v", err)
	}
	return rdb
}

// RequireDatabase 取得整合測試用的資料庫並清空 events / media，連不上就跳過測試
func RequireDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()
	pool, _, cleanup, err := Setup()
	if err != nil {
		t.Skipf("test environment not available: %v", err)
	}
	t.Cleanup(cleanup)

	_, err = pool.Exec(context.Background(), "TRUNCATE events, media RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
	return pool
}
