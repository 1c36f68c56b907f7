package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.API.Port)
	assert.Equal(t, "superidol", cfg.Auth.Secret)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "mongodb://localhost:27017/cineview", cfg.DatabaseConfig.Mongo.URI)
	assert.Equal(t, StoreMongo, cfg.DatabaseConfig.Movies)
	assert.Equal(t, "movie-events", cfg.Kafka.Topic)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "service.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  port: 8081\ndatabase:\n  users: mysql\n"), 0o600))
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SWEEP_INTERVAL", "30s")
	t.Setenv("MOVIES_STORE", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, "s3cret", cfg.Auth.Secret)
	assert.Equal(t, StoreMysql, cfg.DatabaseConfig.Users)
	assert.Equal(t, StoreMemory, cfg.DatabaseConfig.Movies)
	assert.Equal(t, 30*time.Second, cfg.Processor.SweepInterval)
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	cfg.DatabaseConfig.Movies = "mysql"
	cfg.Auth.Secret = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.secret is required")
	assert.Contains(t, err.Error(), `database.movies: unsupported store "mysql"`)
}
