package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://printshop@localhost/printshop")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, "uploads", cfg.Storage.UploadsDir)
	assert.Equal(t, "America/Bogota", cfg.Intake.TimeZone)
	assert.Equal(t, 7*24*time.Hour, cfg.Intake.CodeWindow())
	assert.Equal(t, 200, cfg.Intake.CodeMaxAttempts)
	assert.Equal(t, 5*time.Minute, cfg.Analytics.CacheTTL())
	assert.Equal(t, time.Duration(0), cfg.App.RequestTimeout())
	assert.Equal(t, []string{"*"}, cfg.App.AllowedOrigins)
	assert.Equal(t, "files:updated", cfg.Realtime.Channel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://printshop@localhost/printshop")
	t.Setenv("PORT", "8080")
	t.Setenv("FRONTEND_ORIGIN", "http://localhost:5173, https://shop.example")
	t.Setenv("STORAGE_DRIVER", "MinIO")
	t.Setenv("MINIO_ENDPOINT", "minio:9000")
	t.Setenv("JOB_CODE_MAX_ATTEMPTS", "not-a-number")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "15")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, []string{"http://localhost:5173", "https://shop.example"}, cfg.App.AllowedOrigins)
	assert.Equal(t, "minio", cfg.Storage.Driver)
	assert.Equal(t, 200, cfg.Intake.CodeMaxAttempts)
	assert.Equal(t, 15*time.Second, cfg.App.RequestTimeout())
}

func TestLoad_RequiresDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")

	_, err := Load()
	require.ErrorContains(t, err, "POSTGRES_DSN")
}

func TestLoad_RejectsUnknownStorageDriver(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://printshop@localhost/printshop")
	t.Setenv("STORAGE_DRIVER", "ftp")

	_, err := Load()
	require.ErrorContains(t, err, "STORAGE_DRIVER")
}

func TestLoad_MinIORequiresEndpoint(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://printshop@localhost/printshop")
	t.Setenv("STORAGE_DRIVER", "minio")
	t.Setenv("MINIO_ENDPOINT", "")

	_, err := Load()
	require.ErrorContains(t, err, "MINIO_ENDPOINT")
}
