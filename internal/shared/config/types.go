package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	BaseURL         string        `mapstructure:"base_url"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Timezone        string        `mapstructure:"timezone"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s *ServerConfig) IsDebug() bool {
	return s.Mode == "debug"
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
	SlowThresholdMs int    `mapstructure:"slow_threshold_ms"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
}

type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// PaynowConfig holds the integration credentials of the Paynow-style gateway.
type PaynowConfig struct {
	IntegrationID  string        `mapstructure:"integration_id"`
	IntegrationKey string        `mapstructure:"integration_key"`
	InitiateURL    string        `mapstructure:"initiate_url"`
	ResultURL      string        `mapstructure:"result_url"`
	ReturnURL      string        `mapstructure:"return_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type PaymentConfig struct {
	Currency         string        `mapstructure:"currency"`
	WebhookDedupeTTL time.Duration `mapstructure:"webhook_dedupe_ttl"`
	WebhookRateLimit int           `mapstructure:"webhook_rate_limit"`
	Paynow           PaynowConfig  `mapstructure:"paynow"`
}

type SubscriptionConfig struct {
	TrialDays      int    `mapstructure:"trial_days"`
	PeriodDays     int    `mapstructure:"period_days"`
	GraceDays      int    `mapstructure:"grace_days"`
	PlanPriceCents int64  `mapstructure:"plan_price_cents"`
	DefaultPlan    string `mapstructure:"default_plan"`
	// CronSecret is either a bcrypt hash or a plain shared secret.
	CronSecret     string        `mapstructure:"cron_secret"`
	DailyCheckAt   string        `mapstructure:"daily_check_at"`
	AccessCacheTTL time.Duration `mapstructure:"access_cache_ttl"`
}

type StorageConfig struct {
	BaseDir     string `mapstructure:"base_dir"`
	PublicURL   string `mapstructure:"public_url"`
	MaxFileSize int64  `mapstructure:"max_file_size"`
}

type NotificationConfig struct {
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	BatchSize      int           `mapstructure:"batch_size"`
	MaxAttempts    int           `mapstructure:"max_attempts"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"`
	RedisChannel   string        `mapstructure:"redis_channel"`
	// TemplatesFile holds YAML overrides of the built-in message templates.
	TemplatesFile string `mapstructure:"templates_file"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type PermissionConfig struct {
	// PolicyFile overrides the built-in route policies when set.
	PolicyFile string `mapstructure:"policy_file"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	RequestsPerHour   int  `mapstructure:"requests_per_hour"`
}
