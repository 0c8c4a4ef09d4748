package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig   `envPrefix:"SERVER_"`
	Catalog  CatalogConfig  `envPrefix:"CATALOG_"`
	Storage  StorageConfig  `envPrefix:"STORAGE_"`
	Session  SessionConfig  `envPrefix:"SESSION_"`
	Checkout CheckoutConfig `envPrefix:"CHECKOUT_"`
	Events   EventsConfig   `envPrefix:"EVENTS_"`
	Log      LogConfig      `envPrefix:"LOG_"`
}

type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Host string `env:"HOST" envDefault:"0.0.0.0"`
}

func (s ServerConfig) Addr() string { return s.Host + ":" + s.Port }

type CatalogConfig struct {
	BaseURL string        `env:"BASE_URL" envDefault:"https://fakestoreapi.com"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

type StorageConfig struct {
	// Driver is one of memory, file, sqlite, postgres, redis, mongo.
	Driver        string        `env:"DRIVER" envDefault:"file"`
	Dir           string        `env:"DIR" envDefault:"./data/snapshots"`
	SQLitePath    string        `env:"SQLITE_PATH" envDefault:"./data/shophub.db"`
	PostgresDSN   string        `env:"POSTGRES_DSN"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPrefix   string        `env:"REDIS_PREFIX" envDefault:"shophub:"`
	RedisTTL      time.Duration `env:"REDIS_TTL" envDefault:"0s"`
	MongoURI      string        `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string        `env:"MONGO_DATABASE" envDefault:"shophub"`
}

type SessionConfig struct {
	Secret       string        `env:"SECRET,required"`
	TTL          time.Duration `env:"TTL" envDefault:"720h"`
	SecureCookie bool          `env:"SECURE_COOKIE" envDefault:"false"`
	// CacheSize and CacheTTL bound the per-session state kept in memory.
	// Evicted sessions are reloaded from the store.
	CacheSize int           `env:"CACHE_SIZE" envDefault:"10000"`
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"30m"`
}

type CheckoutConfig struct {
	// Delay simulates payment processing.
	Delay time.Duration `env:"DELAY" envDefault:"1500ms"`
}

type EventsConfig struct {
	// Driver is log or kafka.
	Driver       string   `env:"DRIVER" envDefault:"log"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	OrdersTopic  string   `env:"ORDERS_TOPIC" envDefault:"shophub.orders"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
}

// Load reads an optional .env file, then the environment.
func Load(files ...string) (*Config, error) {
	// a missing .env is fine, the environment may be set already
	_ = godotenv.Load(files...)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
