package config_test

import (
	"testing"
	"time"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadWith(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "mongo", cfg.Storage)
	assert.Equal(t, uint64(50), cfg.MongoMaxPoolSize)
	assert.Equal(t, 5*time.Minute, cfg.MongoMaxIdleTime)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.NotEmpty(t, cfg.JWTSecret, "development falls back to a local secret")
	assert.False(t, cfg.IsProduction())
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.LeopardsTimeout)
}

func TestLoadOverrides(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")
	v.Set("JWT_SECRET", "s3cret")
	v.Set("STORAGE_DRIVER", "Memory")
	v.Set("KAFKA_BROKERS", "k1:9092, k2:9092,")
	v.Set("ASSET_CLOUD_NAME", "demo")
	v.Set("LOG_LEVEL", "debug")
	v.Set("LEOPARDS_TIMEOUT", "3s")

	cfg, err := config.LoadWith(v)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "memory", cfg.Storage)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "https://res.cloudinary.com/demo/", cfg.AssetHostPrefix())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.LeopardsTimeout)
}

func TestLoadRejectsMissingSecretInProduction(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")

	_, err := config.LoadWith(v)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadRejectsUnknownStorage(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "postgres")

	_, err := config.LoadWith(v)
	assert.Error(t, err)
}
