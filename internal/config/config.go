package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	Site        Site
	Database    Database

	Aamarpay Aamarpay `envPrefix:"AAMARPAY_"`
	JWT      JWT      `envPrefix:"JWT_"`
	Redis    Redis    `envPrefix:"REDIS_"`
	Kafka    Kafka    `envPrefix:"KAFKA_"`
}

// Site holds the public URLs used to build gateway callbacks and client redirects.
type Site struct {
	ServerURL string `env:"SERVER_URL" envDefault:"http://localhost:8080"`
	ClientURL string `env:"CLIENT_URL"`
}

type Database struct {
	Driver string `env:"DB_DRIVER" envDefault:"sqlite"` // sqlite, mysql, postgres
	URL    string `env:"DATABASE_URL" envDefault:"marketplace.db"`
}

type Aamarpay struct {
	BaseApiURL   string        `env:"BASE_API_URL" envDefault:"https://sandbox.aamarpay.com"`
	StoreID      string        `env:"STORE_ID"`
	SignatureKey string        `env:"SIGNATURE_KEY"`
	Currency     string        `env:"CURRENCY" envDefault:"BDT"`
	Timeout      time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

type JWT struct {
	Secret string `env:"SECRET"`
}

type Redis struct {
	Addr       string        `env:"ADDR"` // empty disables the product cache
	Password   string        `env:"PASSWORD"`
	DB         int           `env:"DB" envDefault:"0"`
	ProductTTL time.Duration `env:"PRODUCT_TTL" envDefault:"10m"`
}

type Kafka struct {
	Brokers      []string      `env:"BROKERS" envSeparator:","` // empty disables the outbox poller
	Topic        string        `env:"TOPIC" envDefault:"marketplace-events"`
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"2s"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host      string  `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port      string  `env:"HTTP_PORT" envDefault:"8080"`
	RateLimit float64 `env:"HTTP_RATE_LIMIT" envDefault:"20"` // requests per second per client IP
}
