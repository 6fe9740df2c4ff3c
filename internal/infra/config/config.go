package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	App       AppSettings       `mapstructure:"app"`
	Upstream  UpstreamSettings  `mapstructure:"upstream"`
	Postgres  PostgresSettings  `mapstructure:"postgres"`
	Redis     RedisSettings     `mapstructure:"redis"`
	Kafka     KafkaSettings     `mapstructure:"kafka"`
	Auth      AuthSettings      `mapstructure:"auth"`
	Cache     CacheSettings     `mapstructure:"cache"`
	RateLimit RateLimitSettings `mapstructure:"rate_limit"`
	Telemetry TelemetrySettings `mapstructure:"telemetry"`
	CORS      CORSSettings      `mapstructure:"cors"`
}

type AppSettings struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// UpstreamSettings configures the fleet management API the gateway fronts.
type UpstreamSettings struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type PostgresSettings struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	User              string        `mapstructure:"user"`
	Password          string        `mapstructure:"password"`
	Database          string        `mapstructure:"database"`
	SSLMode           string        `mapstructure:"ssl_mode"`
	MaxConns          int32         `mapstructure:"max_conns"`
	MinConns          int32         `mapstructure:"min_conns"`
	MaxConnLifetime   time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   time.Duration `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period"`
}

// RedisSettings configures Redis connection and key prefixes.
type RedisSettings struct {
	Host             string `mapstructure:"host"`
	Port             int    `mapstructure:"port"`
	DB               int    `mapstructure:"db"`
	Password         string `mapstructure:"password"`
	TLSEnabled       bool   `mapstructure:"tls_enabled"`
	SessionKeyPrefix string `mapstructure:"session_key_prefix"`
}

// KafkaSettings configures the Kafka producer.
type KafkaSettings struct {
	Enabled     bool     `mapstructure:"enabled"`
	Brokers     []string `mapstructure:"brokers"`
	TopicPrefix string   `mapstructure:"topic_prefix"`
}

// AuthSettings configures session validation for browser requests.
type AuthSettings struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// CacheSettings configures the inventory snapshot cache.
type CacheSettings struct {
	SnapshotTTL time.Duration `mapstructure:"snapshot_ttl"`
}

// RateLimitSettings configures sliding-window limits on mutating endpoints.
type RateLimitSettings struct {
	WindowDuration    time.Duration `mapstructure:"window_duration"`
	SubmitMaxAttempts int           `mapstructure:"submit_max_attempts"`
}

type TelemetrySettings struct {
	MetricsPort int    `mapstructure:"metrics_port"`
	ServiceName string `mapstructure:"service_name"`
}

// CORSSettings configures browser origin access.
type CORSSettings struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("FLEET")

	setDefaults(v)

	if err := bindEnvs(v, []string{
		"app.name",
		"app.env",
		"app.host",
		"app.port",
		"upstream.base_url",
		"upstream.token",
		"upstream.timeout",
		"postgres.host",
		"postgres.port",
		"postgres.user",
		"postgres.password",
		"postgres.database",
		"postgres.ssl_mode",
		"postgres.max_conns",
		"postgres.min_conns",
		"postgres.max_conn_lifetime",
		"postgres.max_conn_idle_time",
		"postgres.health_check_period",
		"redis.host",
		"redis.port",
		"redis.db",
		"redis.password",
		"redis.tls_enabled",
		"redis.session_key_prefix",
		"kafka.enabled",
		"kafka.brokers",
		"kafka.topic_prefix",
		"auth.jwt_secret",
		"auth.token_ttl",
		"cache.snapshot_ttl",
		"rate_limit.window_duration",
		"rate_limit.submit_max_attempts",
		"telemetry.metrics_port",
		"telemetry.service_name",
		"cors.allowed_origins",
	}); err != nil {
		return nil, err
	}

	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "fleet-console")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)

	v.SetDefault("upstream.base_url", "http://localhost:3000/api")
	v.SetDefault("upstream.token", "")
	v.SetDefault("upstream.timeout", "15s")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "fleet")
	v.SetDefault("postgres.password", "fleet_password")
	v.SetDefault("postgres.database", "fleet")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 2)
	v.SetDefault("postgres.max_conn_lifetime", "60m")
	v.SetDefault("postgres.max_conn_idle_time", "15m")
	v.SetDefault("postgres.health_check_period", "30s")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.tls_enabled", false)
	v.SetDefault("redis.session_key_prefix", "fleet:session")

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic_prefix", "fleet")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "12h")

	v.SetDefault("cache.snapshot_ttl", "30s")

	v.SetDefault("rate_limit.window_duration", "1m")
	v.SetDefault("rate_limit.submit_max_attempts", 30)

	v.SetDefault("telemetry.metrics_port", 9090)
	v.SetDefault("telemetry.service_name", "fleet-console")

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173"})
}

func bindEnvs(v *viper.Viper, keys []string) error {
	for _, key := range keys {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, "FLEET_"+envKey, envKey); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}
