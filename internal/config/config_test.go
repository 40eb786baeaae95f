package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("UPLOAD_DIR", "/tmp/uploads")
	t.Setenv("PUBLIC_BASE_URL", "http://localhost:8082")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg := Load()

	assert.Equal(t, "/tmp/uploads", cfg.Upload.Dir)
	assert.Equal(t, "http://localhost:8082", cfg.Upload.PublicBaseURL)
	assert.Equal(t, "/images", cfg.Upload.ImagesPath)
	assert.Equal(t, 2048, cfg.Upload.MaxUploadBytes)
	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Database.Enabled())
	assert.True(t, cfg.MinIO.UseSSL)
	assert.False(t, cfg.MinIO.Enabled())
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("UPLOAD_DIR", "")
	t.Setenv("MAX_UPLOAD_BYTES", "")
	t.Setenv("DB_HOST", "")

	cfg := Load()

	assert.Equal(t, "/app/images", cfg.Upload.Dir)
	assert.Equal(t, "", cfg.Upload.PublicBaseURL)
	assert.Equal(t, 10<<20, cfg.Upload.MaxUploadBytes)
	assert.False(t, cfg.Database.Enabled())
}

func TestLocation(t *testing.T) {
	cfg := &AppConfig{Timezone: "Asia/Jakarta"}
	loc := cfg.Location()
	assert.NotNil(t, loc)

	cfg.Timezone = "Not/AZone"
	assert.Equal(t, time.UTC, cfg.Location())
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
