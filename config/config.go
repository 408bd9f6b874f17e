package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Cleanup  CleanupConfig
	Cache    CacheConfig
}

type ServerConfig struct {
	Port       string
	Mode       string
	AdminToken string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// StorageConfig 媒體檔案存放的磁碟設定，public 為本機目錄，r2 為 S3 相容儲存
type StorageConfig struct {
	DefaultDisk string
	PublicRoot  string
	AppURL      string
	R2          R2Config
}

type R2Config struct {
	Bucket          string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string
}

// Enabled 未設定 bucket 時視為沒有 r2 磁碟
func (c R2Config) Enabled() bool {
	return c.Bucket != ""
}

type CleanupConfig struct {
	MinSimilarity int
	Keep          string
	QueueBuffer   int
	UseRedisQueue bool
}

type CacheConfig struct {
	FeaturedHeroTTL time.Duration
	CalendarTTL     time.Duration
	JobReportTTL    time.Duration
}

var AppConfig *Config

// LoadConfig 先讀取 .env（不存在則忽略），再由環境變數覆蓋預設值
func LoadConfig() *Config {
	_ = godotenv.Load()

	v := newViper()

	AppConfig = &Config{
		Server:   GetServerConfig(v),
		Database: GetDatabaseConfig(v),
		Redis:    GetRedisConfig(v),
		Storage:  GetStorageConfig(v),
		Cleanup:  GetCleanupConfig(v),
		Cache:    GetCacheConfig(v),
	}

	return AppConfig
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:            "localhost",
		Port:            "5433", // 測試 DB 用 5433 port
		User:            "postgres",
		Password:        "postgres",
		DBName:          "test_db",
		SSLMode:         "disable",
		MaxConns:        5,
		MinConns:        1,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}

	testRedisConfig := RedisConfig{
		Host:     "localhost",
		Port:     "6380", // 測試 Redis 用 6380 port
		Password: "",
		DB:       1,
	}

	return &Config{
		Server: ServerConfig{
			Port:       "8080",
			Mode:       "test",
			AdminToken: "test-admin-token",
		},
		Database: *testConfig,
		Redis:    testRedisConfig,
		Storage: StorageConfig{
			DefaultDisk: "public",
			PublicRoot:  "storage/app/public",
			AppURL:      "http://localhost:8080",
		},
		Cleanup: CleanupConfig{
			MinSimilarity: 80,
			Keep:          "oldest",
			QueueBuffer:   8,
		},
		Cache: CacheConfig{
			FeaturedHeroTTL: time.Minute,
			CalendarTTL:     time.Hour,
			JobReportTTL:    24 * time.Hour,
		},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("ADMIN_TOKEN", "")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "postgres")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 25)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("DB_MAX_CONN_LIFETIME", time.Hour)
	v.SetDefault("DB_MAX_CONN_IDLE_TIME", 30*time.Minute)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("MEDIA_DISK", "r2")
	v.SetDefault("PUBLIC_DISK_ROOT", "storage/app/public")
	v.SetDefault("APP_URL", "http://localhost:8080")
	v.SetDefault("R2_BUCKET", "")
	v.SetDefault("R2_ENDPOINT", "")
	v.SetDefault("R2_REGION", "auto")
	v.SetDefault("R2_ACCESS_KEY_ID", "")
	v.SetDefault("R2_SECRET_ACCESS_KEY", "")
	v.SetDefault("R2_PUBLIC_URL", "")

	v.SetDefault("CLEANUP_MIN_SIMILARITY", 80)
	v.SetDefault("CLEANUP_KEEP", "oldest")
	v.SetDefault("CLEANUP_QUEUE_BUFFER", 16)
	v.SetDefault("CLEANUP_REDIS_QUEUE", true)

	v.SetDefault("CACHE_FEATURED_HERO_TTL", time.Minute)
	v.SetDefault("CACHE_CALENDAR_TTL", time.Hour)
	v.SetDefault("CACHE_JOB_REPORT_TTL", 24*time.Hour)

	return v
}

func GetServerConfig(v *viper.Viper) ServerConfig {
	return ServerConfig{
		Port:       v.GetString("APP_PORT"),
		Mode:       v.GetString("GIN_MODE"),
		AdminToken: v.GetString("ADMIN_TOKEN"),
	}
}

func GetDatabaseConfig(v *viper.Viper) DatabaseConfig {
	return DatabaseConfig{
		Host:            v.GetString("DB_HOST"),
		Port:            v.GetString("DB_PORT"),
		User:            v.GetString("DB_USER"),
		Password:        v.GetString("DB_PASSWORD"),
		DBName:          v.GetString("DB_NAME"),
		SSLMode:         v.GetString("DB_SSL_MODE"),
		MaxConns:        v.GetInt32("DB_MAX_CONNS"),
		MinConns:        v.GetInt32("DB_MIN_CONNS"),
		MaxConnLifetime: v.GetDuration("DB_MAX_CONN_LIFETIME"),
		MaxConnIdleTime: v.GetDuration("DB_MAX_CONN_IDLE_TIME"),
	}
}

func GetRedisConfig(v *viper.Viper) RedisConfig {
	return RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetString("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}
}

func GetStorageConfig(v *viper.Viper) StorageConfig {
	return StorageConfig{
		DefaultDisk: v.GetString("MEDIA_DISK"),
		PublicRoot:  v.GetString("PUBLIC_DISK_ROOT"),
		AppURL:      v.GetString("APP_URL"),
		R2: R2Config{
			Bucket:          v.GetString("R2_BUCKET"),
			Endpoint:        v.GetString("R2_ENDPOINT"),
			Region:          v.GetString("R2_REGION"),
			AccessKeyID:     v.GetString("R2_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("R2_SECRET_ACCESS_KEY"),
			PublicURL:       v.GetString("R2_PUBLIC_URL"),
		},
	}
}

func GetCleanupConfig(v *viper.Viper) CleanupConfig {
	return CleanupConfig{
		MinSimilarity: v.GetInt("CLEANUP_MIN_SIMILARITY"),
		Keep:          v.GetString("CLEANUP_KEEP"),
		QueueBuffer:   v.GetInt("CLEANUP_QUEUE_BUFFER"),
		UseRedisQueue: v.GetBool("CLEANUP_REDIS_QUEUE"),
	}
}

func GetCacheConfig(v *viper.Viper) CacheConfig {
	return CacheConfig{
		FeaturedHeroTTL: v.GetDuration("CACHE_FEATURED_HERO_TTL"),
		CalendarTTL:     v.GetDuration("CACHE_CALENDAR_TTL"),
		JobReportTTL:    v.GetDuration("CACHE_JOB_REPORT_TTL"),
	}
}
