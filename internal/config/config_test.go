package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg := &Config{}
	err := env.ParseWithOptions(cfg, env.Options{Environment: map[string]string{}})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment.Name)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "https://sandbox.aamarpay.com", cfg.Aamarpay.BaseApiURL)
	assert.Equal(t, "BDT", cfg.Aamarpay.Currency)
	assert.Equal(t, 30*time.Second, cfg.Aamarpay.Timeout)
	assert.Equal(t, 10*time.Minute, cfg.Redis.ProductTTL)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestParse_Prefixes(t *testing.T) {
	cfg := &Config{}
	err := env.ParseWithOptions(cfg, env.Options{Environment: map[string]string{
		"AAMARPAY_STORE_ID":      "aamarpaytest",
		"AAMARPAY_SIGNATURE_KEY": "sig",
		"JWT_SECRET":             "secret",
		"REDIS_ADDR":             "localhost:6379",
		"KAFKA_BROKERS":          "k1:9092,k2:9092",
		"DB_DRIVER":              "postgres",
		"SERVER_URL":             "https://api.example.com",
	}})
	require.NoError(t, err)

	assert.Equal(t, "aamarpaytest", cfg.Aamarpay.StoreID)
	assert.Equal(t, "sig", cfg.Aamarpay.SignatureKey)
	assert.Equal(t, "secret", cfg.JWT.Secret)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "https://api.example.com", cfg.Site.ServerURL)
}
