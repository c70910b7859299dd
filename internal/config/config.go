package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. RESCUENET_JWT_SECRET.
const EnvPrefix = "rescuenet"

type Config struct {
	Environment string          `mapstructure:"environment" split_words:"true"`
	Server      ServerConfig    `mapstructure:"server" split_words:"true"`
	Database    DatabaseConfig  `mapstructure:"database" split_words:"true"`
	Redis       RedisConfig     `mapstructure:"redis" split_words:"true"`
	JWT         JWTConfig       `mapstructure:"jwt" split_words:"true"`
	Log         LogConfig       `mapstructure:"log" split_words:"true"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit" split_words:"true"`
	CORS        CORSConfig      `mapstructure:"cors" split_words:"true"`
	Cache       CacheConfig     `mapstructure:"cache" split_words:"true"`
	Outbox      OutboxConfig    `mapstructure:"outbox" split_words:"true"`
	Telegram    TelegramConfig  `mapstructure:"telegram" split_words:"true"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port" split_words:"true"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" split_words:"true"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" split_words:"true"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" split_words:"true"`
}

// DatabaseConfig selects the storage driver. "memory" keeps everything in
// process and needs no connection settings.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" split_words:"true"`
	Host            string        `mapstructure:"host" split_words:"true"`
	Port            int           `mapstructure:"port" split_words:"true"`
	User            string        `mapstructure:"user" split_words:"true"`
	Password        string        `mapstructure:"password" split_words:"true"`
	Name            string        `mapstructure:"name" split_words:"true"`
	SSLMode         string        `mapstructure:"sslmode" split_words:"true"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" split_words:"true"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" split_words:"true"`
	AutoMigrate     bool          `mapstructure:"auto_migrate" split_words:"true"`
}

// DSN renders the lib/pq connection string. Sessions run in UTC so that
// date filters compare calendar days consistently.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s timezone=UTC",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

type RedisConfig struct {
	URL          string        `mapstructure:"url" split_words:"true"`
	PoolSize     int           `mapstructure:"pool_size" split_words:"true"`
	MinIdleConns int           `mapstructure:"min_idle_conns" split_words:"true"`
	MaxRetries   int           `mapstructure:"max_retries" split_words:"true"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff" split_words:"true"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret" split_words:"true"`
	Issuer string        `mapstructure:"issuer" split_words:"true"`
	Expiry time.Duration `mapstructure:"expiry" split_words:"true"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" split_words:"true"`
	Format string `mapstructure:"format" split_words:"true"`
}

type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled" split_words:"true"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" split_words:"true"`
	Burst             int           `mapstructure:"burst" split_words:"true"`
	IdleExpiry        time.Duration `mapstructure:"idle_expiry" split_words:"true"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" split_words:"true"`
	AllowedMethods []string `mapstructure:"allowed_methods" split_words:"true"`
	AllowedHeaders []string `mapstructure:"allowed_headers" split_words:"true"`
}

type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl" split_words:"true"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" split_words:"true"`
}

type OutboxConfig struct {
	BatchSize       int           `mapstructure:"batch_size" split_words:"true"`
	PollInterval    time.Duration `mapstructure:"poll_interval" split_words:"true"`
	RetryAttempts   int           `mapstructure:"retry_attempts" split_words:"true"`
	RetryDelay      time.Duration `mapstructure:"retry_delay" split_words:"true"`
	MaxRetries      int           `mapstructure:"max_retries" split_words:"true"`
	Retention       time.Duration `mapstructure:"retention" split_words:"true"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" split_words:"true"`
	// HealthPort serves the worker's health and metrics endpoints.
	HealthPort int `mapstructure:"health_port" split_words:"true"`
}

// TelegramConfig configures the bot. An empty BotToken disables delivery;
// WebhookSecret, when set, must match the X-Telegram-Bot-Api-Secret-Token header.
type TelegramConfig struct {
	BotToken      string        `mapstructure:"bot_token" split_words:"true"`
	BaseURL       string        `mapstructure:"base_url" split_words:"true"`
	Timeout       time.Duration `mapstructure:"timeout" split_words:"true"`
	WebhookSecret string        `mapstructure:"webhook_secret" split_words:"true"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "rescuenet")
	v.SetDefault("database.name", "rescuenet")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.retry_backoff", "200ms")

	v.SetDefault("jwt.issuer", "rescuenet")
	v.SetDefault("jwt.expiry", "24h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("rate_limit.idle_expiry", "10m")

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"})

	v.SetDefault("cache.ttl", "1m")
	v.SetDefault("cache.cleanup_interval", "5m")

	v.SetDefault("outbox.batch_size", 50)
	v.SetDefault("outbox.poll_interval", "2s")
	v.SetDefault("outbox.retry_attempts", 3)
	v.SetDefault("outbox.retry_delay", "500ms")
	v.SetDefault("outbox.max_retries", 5)
	v.SetDefault("outbox.retention", "168h")
	v.SetDefault("outbox.cleanup_interval", "1h")
	v.SetDefault("outbox.health_port", 8081)

	v.SetDefault("telegram.base_url", "https://api.telegram.org")
	v.SetDefault("telegram.timeout", "10s")
}

// Load reads path, or config.yaml from the usual locations when path is
// empty, then applies RESCUENET_* environment overrides. A missing config
// file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/app/config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Database.Driver) {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required")
	}
	if c.JWT.Expiry <= 0 {
		return errors.New("jwt expiry must be positive")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
