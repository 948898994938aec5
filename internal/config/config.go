package config

import (
	"os"
	"strconv"

	"mediapi/internal/media"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// StorageConfig selects and configures the blob backend.
type StorageConfig struct {
	// Backend is "local" (default) or "s3".
	Backend string
	// Root is the local directory holding the category layout.
	Root string
	// PublicBase is the URL path prefix the local tree is served under.
	PublicBase string
}

// MinIOConfig holds object storage settings for the S3 backend.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// PipelineConfig holds the media pipeline tunables.
type PipelineConfig struct {
	MaxUploadBytes      int64
	ImageMaxDimension   int
	ImageQuality        int
	ThumbnailSize       int
	ThumbnailQuality    int
	TranscodeWorkers    int
	TranscodeTimeoutSec int
}

// AppConfig is the centralized configuration struct for the application,
// populated from environment variables. Sensitive values are never hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Database DatabaseConfig
	Storage  StorageConfig
	MinIO    MinIOConfig
	Pipeline PipelineConfig
}

// Load reads configuration from environment variables. A .env file is picked
// up by importing _ "github.com/joho/godotenv/autoload" in main; real
// environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Storage: StorageConfig{
			Backend:    getEnv("STORAGE_BACKEND", "local"),
			Root:       getEnv("STORAGE_ROOT", "uploads"),
			PublicBase: getEnv("STORAGE_PUBLIC_BASE", "/uploads"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Pipeline: PipelineConfig{
			MaxUploadBytes:      getEnvInt64("MAX_UPLOAD_BYTES", media.DefaultMaxUploadBytes),
			ImageMaxDimension:   getEnvInt("IMAGE_MAX_DIMENSION", media.DefaultMaxDimension),
			ImageQuality:        getEnvInt("IMAGE_QUALITY", media.DefaultImageQuality),
			ThumbnailSize:       getEnvInt("THUMBNAIL_SIZE", media.DefaultThumbnailSize),
			ThumbnailQuality:    getEnvInt("THUMBNAIL_QUALITY", media.DefaultThumbnailQuality),
			TranscodeWorkers:    getEnvInt("TRANSCODE_WORKERS", 4),
			TranscodeTimeoutSec: getEnvInt("TRANSCODE_TIMEOUT_SEC", 30),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return i
		}
	}
	return def
}
