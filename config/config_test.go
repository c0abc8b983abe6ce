package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CATALOG_BASE_URL", "https://catalog.example.com/api/")
	t.Setenv("CATALOG_TIMEOUT", "3s")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("DISCOVERY_RESULT_CAP", "12")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "https://catalog.example.com/api/", cfg.CatalogBaseURL)
	assert.Equal(t, "api/", cfg.CatalogAPIPrefix)
	assert.Equal(t, 3*time.Second, cfg.CatalogTimeout)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, 12, cfg.Discovery.ResultCap)
	assert.Equal(t, 8, cfg.Discovery.SampleSize)
	assert.Equal(t, 5, cfg.Discovery.QueryTokens)
	assert.Equal(t, 3, cfg.Discovery.PerTokenLimit)
}

func TestLoadConfigWithDefaults(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "development")
	t.Setenv("JWT_SECRET", "dev-secret")
	for _, key := range []string{"SERVER_PORT", "CATALOG_BASE_URL", "DB_DRIVER", "REDIS_URL", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "http://localhost:8000/api/", cfg.CatalogBaseURL)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins)
}

func TestLoadConfigProductionSecrets(t *testing.T) {
	secretsDir := t.TempDir()
	secrets := map[string]string{
		"db_user":     "discovery",
		"db_password": "s3cret",
		"jwt_secret":  "prod-jwt",
	}
	for name, value := range secrets {
		require.NoError(t, os.WriteFile(filepath.Join(secretsDir, name), []byte(value+"\n"), 0o600))
	}

	t.Setenv("CI", "")
	t.Setenv("ENV", "production")
	t.Setenv("SECRETS_DIR", secretsDir)
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("JWT_SECRET", "ignored-in-production")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "discovery", cfg.DBUser)
	assert.Equal(t, "s3cret", cfg.DBPassword)
	assert.Equal(t, "prod-jwt", cfg.JWTSecret)
}

func TestValidateConfig(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")

	valid := func() *Config {
		return &Config{
			ServerPort:     "8080",
			CatalogBaseURL: "http://localhost:8000/api/",
			DBDriver:       "sqlite",
			JWTSecret:      "secret",
			Discovery:      DefaultDiscoveryConfig(),
		}
	}

	t.Run("should accept a complete config", func(t *testing.T) {
		assert.NoError(t, ValidateConfig(valid()))
	})

	t.Run("should reject a relative catalog URL", func(t *testing.T) {
		cfg := valid()
		cfg.CatalogBaseURL = "api/"
		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CATALOG_BASE_URL")
	})

	t.Run("should reject an unknown driver", func(t *testing.T) {
		cfg := valid()
		cfg.DBDriver = "mysql"
		assert.Error(t, ValidateConfig(cfg))
	})

	t.Run("should reject a missing jwt secret", func(t *testing.T) {
		cfg := valid()
		cfg.JWTSecret = ""
		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("should reject non-positive limits", func(t *testing.T) {
		cfg := valid()
		cfg.Discovery.ResultCap = 0
		assert.Error(t, ValidateConfig(cfg))
	})
}
