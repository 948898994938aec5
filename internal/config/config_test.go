package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	origHost := os.Getenv("DB_HOST")
	defer os.Setenv("DB_HOST", origHost)

	os.Setenv("DB_HOST", "test-host")
	os.Setenv("DB_MAX_OPEN_CONNS", "20")
	os.Setenv("STORAGE_BACKEND", "s3")
	os.Setenv("MAX_UPLOAD_BYTES", "1048576")
	os.Setenv("IMAGE_MAX_DIMENSION", "1280")
	defer func() {
		os.Unsetenv("DB_MAX_OPEN_CONNS")
		os.Unsetenv("STORAGE_BACKEND")
		os.Unsetenv("MAX_UPLOAD_BYTES")
		os.Unsetenv("IMAGE_MAX_DIMENSION")
	}()

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.Equal(t, "s3", cfg.Storage.Backend)
	assert.Equal(t, int64(1048576), cfg.Pipeline.MaxUploadBytes)
	assert.Equal(t, 1280, cfg.Pipeline.ImageMaxDimension)
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"STORAGE_BACKEND", "STORAGE_ROOT", "MAX_UPLOAD_BYTES", "TRANSCODE_WORKERS"} {
		os.Unsetenv(key)
	}

	cfg := Load()

	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, "uploads", cfg.Storage.Root)
	assert.Equal(t, "/uploads", cfg.Storage.PublicBase)
	assert.Equal(t, int64(50<<20), cfg.Pipeline.MaxUploadBytes)
	assert.Equal(t, 1920, cfg.Pipeline.ImageMaxDimension)
	assert.Equal(t, 300, cfg.Pipeline.ThumbnailSize)
	assert.Equal(t, 4, cfg.Pipeline.TranscodeWorkers)
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvInt64(t *testing.T) {
	key := "TEST_INT64_VAR"

	os.Setenv(key, "5368709120")
	assert.Equal(t, int64(5368709120), getEnvInt64(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, int64(7), getEnvInt64(key, 7))

	os.Unsetenv(key)
	assert.Equal(t, int64(7), getEnvInt64(key, 7))
}
