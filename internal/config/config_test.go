package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	// Save current env and restore later
	origHost := os.Getenv("DB_HOST")
	defer os.Setenv("DB_HOST", origHost)

	os.Setenv("DB_HOST", "test-host")
	os.Setenv("DB_MAX_OPEN_CONNS", "20")
	os.Setenv("S3_USE_SSL", "false")
	os.Setenv("APP_STORE", "postgres")
	os.Setenv("SESSION_SECRET", "test-secret")
	defer func() {
		os.Unsetenv("DB_MAX_OPEN_CONNS")
		os.Unsetenv("S3_USE_SSL")
		os.Unsetenv("APP_STORE")
		os.Unsetenv("SESSION_SECRET")
	}()

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.False(t, cfg.S3.UseSSL)
	assert.Equal(t, "postgres", cfg.Store.Backend)
	assert.Equal(t, []byte("test-secret"), cfg.Auth.Secret)
	assert.Equal(t, "pdfs", cfg.Supabase.Bucket)
	assert.Equal(t, []string{".pdf", ".doc", ".docx"}, cfg.AllowedExtensions)
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "csv", getEnv("APP_STORE", "csv"))
	assert.Equal(t, "data", cfg.Store.DataDir)
	assert.Equal(t, "uploads", cfg.Store.UploadsDir)
	assert.Equal(t, 12*time.Hour, cfg.Auth.SessionTTL)
	// No SESSION_SECRET in env: a random one must still be generated.
	assert.NotEmpty(t, cfg.Auth.Secret)
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

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_DURATION_VAR"

	os.Setenv(key, "90s")
	assert.Equal(t, 90*time.Second, getEnvDuration(key, time.Minute))

	os.Setenv(key, "invalid")
	assert.Equal(t, time.Minute, getEnvDuration(key, time.Minute))

	os.Unsetenv(key)
	assert.Equal(t, time.Minute, getEnvDuration(key, time.Minute))
}

func TestGetEnvList(t *testing.T) {
	key := "TEST_LIST_VAR"

	os.Setenv(key, " .pdf, .docx ,,.txt")
	defer os.Unsetenv(key)
	assert.Equal(t, []string{".pdf", ".docx", ".txt"}, getEnvList(key, ""))

	assert.Equal(t, []string{"a", "b"}, getEnvList("NON_EXISTENT_LIST", "a,b"))
}
