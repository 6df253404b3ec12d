package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/config"
)

type Config struct {
	Server       sharedConfig.ServerConfig       `mapstructure:"server"`
	Database     sharedConfig.DatabaseConfig     `mapstructure:"database"`
	Logger       sharedConfig.LoggerConfig       `mapstructure:"logger"`
	Auth         sharedConfig.AuthConfig         `mapstructure:"auth"`
	Email        sharedConfig.EmailConfig        `mapstructure:"email"`
	Redis        sharedConfig.RedisConfig        `mapstructure:"redis"`
	Payment      sharedConfig.PaymentConfig      `mapstructure:"payment"`
	Subscription sharedConfig.SubscriptionConfig `mapstructure:"subscription"`
	Storage      sharedConfig.StorageConfig      `mapstructure:"storage"`
	Notification sharedConfig.NotificationConfig `mapstructure:"notification"`
	Metrics      sharedConfig.MetricsConfig      `mapstructure:"metrics"`
	Permission   sharedConfig.PermissionConfig   `mapstructure:"permission"`
	RateLimit    sharedConfig.RateLimitConfig    `mapstructure:"rate_limit"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables.
// A missing config file is not an error; defaults and env vars still apply.
func Load(env string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	v.SetEnvPrefix("TICKTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", ModeForEnv(env))
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// ModeForEnv maps a deployment environment onto a gin mode.
func ModeForEnv(env string) string {
	switch strings.ToLower(env) {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func validate(cfg *Config) error {
	if cfg.Subscription.GraceDays < 0 || cfg.Subscription.PeriodDays <= 0 {
		return fmt.Errorf("invalid subscription config: period_days must be positive and grace_days non-negative")
	}
	if cfg.Server.Mode == "release" && cfg.Auth.JWT.Secret == defaultJWTSecret {
		return fmt.Errorf("auth.jwt.secret must be set in release mode")
	}
	return nil
}

const defaultJWTSecret = "change-me-in-production"

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.timezone", "Africa/Harare")
	v.SetDefault("server.allowed_origins", []string{})

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "ticktrack_dev")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("database.slow_threshold_ms", 200)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Auth defaults
	v.SetDefault("auth.jwt.secret", defaultJWTSecret)
	v.SetDefault("auth.jwt.issuer", "ticktrack")

	// Email defaults
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.smtp_host", "localhost")
	v.SetDefault("email.smtp_port", 1025)
	v.SetDefault("email.from_address", "noreply@ticktrack.local")
	v.SetDefault("email.from_name", "TickTrack Pro")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Payment defaults
	v.SetDefault("payment.currency", "USD")
	v.SetDefault("payment.webhook_dedupe_ttl", "24h")
	v.SetDefault("payment.webhook_rate_limit", 120)
	v.SetDefault("payment.paynow.initiate_url", "https://www.paynow.co.zw/interface/initiatetransaction")
	v.SetDefault("payment.paynow.result_url", "http://localhost:8080/webhooks/paynow")
	v.SetDefault("payment.paynow.return_url", "http://localhost:3000/billing/return")
	v.SetDefault("payment.paynow.timeout", "15s")

	// Subscription defaults
	v.SetDefault("subscription.trial_days", 14)
	v.SetDefault("subscription.period_days", 30)
	v.SetDefault("subscription.grace_days", 7)
	v.SetDefault("subscription.plan_price_cents", 4900)
	v.SetDefault("subscription.default_plan", "standard")
	v.SetDefault("subscription.daily_check_at", "00:15")
	v.SetDefault("subscription.access_cache_ttl", "60s")

	// Storage defaults
	v.SetDefault("storage.base_dir", "./uploads")
	v.SetDefault("storage.public_url", "/uploads")
	v.SetDefault("storage.max_file_size", 10<<20)

	// Notification outbox defaults
	v.SetDefault("notification.poll_interval", "10s")
	v.SetDefault("notification.batch_size", 50)
	v.SetDefault("notification.max_attempts", 8)
	v.SetDefault("notification.initial_backoff", "5s")
	v.SetDefault("notification.max_backoff", "30m")
	v.SetDefault("notification.redis_channel", "ticktrack:notifications")
	v.SetDefault("notification.templates_file", "./configs/notification_templates.yaml")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// Permission defaults
	v.SetDefault("permission.policy_file", "")

	// API rate limit defaults
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_minute", 300)
	v.SetDefault("rate_limit.requests_per_hour", 5000)
}
