package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
)

const envPrefix = "COURSEPAY_"

type Config struct {
	Primary   Primary         `koanf:"primary"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Kafka     KafkaConfig     `koanf:"kafka"`
	Auth      AuthConfig      `koanf:"auth"`
	Providers ProvidersConfig `koanf:"providers"`
	Retry     RetryConfig     `koanf:"retry"`
	Logger    LoggerConfig    `koanf:"logger"`
	Worker    WorkerConfig    `koanf:"worker"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port           string        `koanf:"port" validate:"required"`
	ReadTimeout    time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout   time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout    time.Duration `koanf:"idle_timeout" validate:"required"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"required"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" validate:"required"`
}

type RedisConfig struct {
	URL      string        `koanf:"url" validate:"required"`
	ClaimTTL time.Duration `koanf:"claim_ttl" validate:"required"`
}

type KafkaConfig struct {
	Brokers      []string      `koanf:"brokers" validate:"required,min=1"`
	Topic        string        `koanf:"topic" validate:"required"`
	BatchTimeout time.Duration `koanf:"batch_timeout"`
}

type AuthConfig struct {
	JWTSecret string `koanf:"jwt_secret" validate:"required,min=16"`
	Issuer    string `koanf:"issuer"`
}

type ProvidersConfig struct {
	Stripe   StripeConfig   `koanf:"stripe"`
	Paystack PaystackConfig `koanf:"paystack"`
	Midtrans MidtransConfig `koanf:"midtrans"`
}

type StripeConfig struct {
	Enabled          bool          `koanf:"enabled"`
	BaseURL          string        `koanf:"base_url"`
	SecretKey        string        `koanf:"secret_key" validate:"required_with=Enabled"`
	WebhookSecret    string        `koanf:"webhook_secret" validate:"required_with=Enabled"`
	WebhookTolerance time.Duration `koanf:"webhook_tolerance"`
	Timeout          time.Duration `koanf:"timeout"`
}

type PaystackConfig struct {
	Enabled   bool          `koanf:"enabled"`
	BaseURL   string        `koanf:"base_url"`
	SecretKey string        `koanf:"secret_key" validate:"required_with=Enabled"`
	Timeout   time.Duration `koanf:"timeout"`
}

type MidtransConfig struct {
	Enabled    bool   `koanf:"enabled"`
	ServerKey  string `koanf:"server_key" validate:"required_with=Enabled"`
	Production bool   `koanf:"production"`
}

type RetryConfig struct {
	BaseDelay  time.Duration `koanf:"base_delay"`
	MaxRetries int           `koanf:"max_retries"`
}

type WorkerConfig struct {
	Interval    time.Duration `koanf:"interval" validate:"required"`
	BatchSize   int           `koanf:"batch_size" validate:"required"`
	PollAfter   time.Duration `koanf:"poll_after" validate:"required"`
	CancelAfter time.Duration `koanf:"cancel_after" validate:"required"`
}

// LoadConfig reads the optional YAML file at path, then applies COURSEPAY_*
// environment overrides. Nested keys use a double underscore:
// COURSEPAY_DATABASE__HOST sets database.host.
func LoadConfig(path string) (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			logger.Error("failed to load config file", "path", path, "error", err)
			return nil, err
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, envPrefix)),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	mainConfig.applyDefaults()

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}

func (c *Config) applyDefaults() {
	if c.Providers.Stripe.BaseURL == "" {
		c.Providers.Stripe.BaseURL = "https://api.stripe.com"
	}
	if c.Providers.Stripe.WebhookTolerance == 0 {
		c.Providers.Stripe.WebhookTolerance = 5 * time.Minute
	}
	if c.Providers.Stripe.Timeout == 0 {
		c.Providers.Stripe.Timeout = 15 * time.Second
	}
	if c.Providers.Paystack.BaseURL == "" {
		c.Providers.Paystack.BaseURL = "https://api.paystack.co"
	}
	if c.Providers.Paystack.Timeout == 0 {
		c.Providers.Paystack.Timeout = 15 * time.Second
	}
	if c.Retry.MaxRetries == 0 {
		c.Retry.MaxRetries = 3
	}
	if c.Retry.BaseDelay == 0 {
		c.Retry.BaseDelay = 200 * time.Millisecond
	}
	if c.Kafka.BatchTimeout == 0 {
		c.Kafka.BatchTimeout = 10 * time.Millisecond
	}
}
