package main

import (
	"testing"

	"github.com/caarlos0/env/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig(env.Options{Environment: map[string]string{
		"HTTP_PORT":   "9090",
		"KAFKA_TOPIC": "orders",
	}})
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, "orders", cfg.Kafka.Topic)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadConfig_InvalidValue(t *testing.T) {
	_, err := loadConfig(env.Options{Environment: map[string]string{
		"REDIS_PRODUCT_TTL": "forever",
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
