package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"CATSYNC_APP_NAME":                os.Getenv("CATSYNC_APP_NAME"),
		"CATSYNC_APP_ENV":                 os.Getenv("CATSYNC_APP_ENV"),
		"CATSYNC_APP_PORT":                os.Getenv("CATSYNC_APP_PORT"),
		"CATSYNC_DATABASE_HOST":           os.Getenv("CATSYNC_DATABASE_HOST"),
		"CATSYNC_DATABASE_PORT":           os.Getenv("CATSYNC_DATABASE_PORT"),
		"CATSYNC_DATABASE_USER":           os.Getenv("CATSYNC_DATABASE_USER"),
		"CATSYNC_DATABASE_PASSWORD":       os.Getenv("CATSYNC_DATABASE_PASSWORD"),
		"CATSYNC_DATABASE_DBNAME":         os.Getenv("CATSYNC_DATABASE_DBNAME"),
		"CATSYNC_DATABASE_SSLMODE":        os.Getenv("CATSYNC_DATABASE_SSLMODE"),
		"CATSYNC_DATABASE_MAX_OPEN_CONNS": os.Getenv("CATSYNC_DATABASE_MAX_OPEN_CONNS"),
		"CATSYNC_DATABASE_MAX_IDLE_CONNS": os.Getenv("CATSYNC_DATABASE_MAX_IDLE_CONNS"),
		"CATSYNC_REMOTE_BASE_URL":         os.Getenv("CATSYNC_REMOTE_BASE_URL"),
		"CATSYNC_REMOTE_LANGUAGE":         os.Getenv("CATSYNC_REMOTE_LANGUAGE"),
		"CATSYNC_SYNC_LOCK_TTL":           os.Getenv("CATSYNC_SYNC_LOCK_TTL"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "catalogsync-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "catalogsync", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "en-US", cfg.Remote.Language)
		assert.Equal(t, 30*time.Second, cfg.Remote.Timeout)
		assert.Equal(t, 2*time.Minute, cfg.SyncLock.TTL)
	})

	t.Run("loads values from environment variables with CATSYNC prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("CATSYNC_APP_NAME", "test-app")
		os.Setenv("CATSYNC_APP_PORT", "9000")
		os.Setenv("CATSYNC_DATABASE_HOST", "testdb.local")
		os.Setenv("CATSYNC_DATABASE_PORT", "5433")
		os.Setenv("CATSYNC_REMOTE_BASE_URL", "https://remote.example.com")
		os.Setenv("CATSYNC_REMOTE_LANGUAGE", "de-DE")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "https://remote.example.com", cfg.Remote.BaseURL)
		assert.Equal(t, "de-DE", cfg.Remote.Language)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("CATSYNC_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("CATSYNC_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects a relative remote base URL", func(t *testing.T) {
		clearEnv()
		os.Setenv("CATSYNC_REMOTE_BASE_URL", "remote.example.com/api")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "remote.base_url")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"CATSYNC_APP_ENV":           os.Getenv("CATSYNC_APP_ENV"),
		"CATSYNC_DATABASE_PASSWORD": os.Getenv("CATSYNC_DATABASE_PASSWORD"),
		"CATSYNC_DATABASE_SSLMODE":  os.Getenv("CATSYNC_DATABASE_SSLMODE"),
		"CATSYNC_REMOTE_BASE_URL":   os.Getenv("CATSYNC_REMOTE_BASE_URL"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("CATSYNC_APP_ENV", "production")
		os.Setenv("CATSYNC_DATABASE_SSLMODE", "require")
		os.Setenv("CATSYNC_REMOTE_BASE_URL", "https://remote.example.com")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("CATSYNC_APP_ENV", "production")
		os.Setenv("CATSYNC_DATABASE_PASSWORD", "secure-password")
		os.Setenv("CATSYNC_REMOTE_BASE_URL", "https://remote.example.com")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("requires remote.base_url in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("CATSYNC_APP_ENV", "production")
		os.Setenv("CATSYNC_DATABASE_PASSWORD", "secure-password")
		os.Setenv("CATSYNC_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "remote.base_url is required in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		os.Setenv("CATSYNC_APP_ENV", "production")
		os.Setenv("CATSYNC_DATABASE_PASSWORD", "secure-password")
		os.Setenv("CATSYNC_DATABASE_SSLMODE", "require")
		os.Setenv("CATSYNC_REMOTE_BASE_URL", "https://remote.example.com")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "pass%40word%23123")
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.local", Port: 6380}
	assert.Equal(t, "cache.local:6380", cfg.Addr())
}
