package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var defaultPaths = []string{"./configs", ".", "/app/configs"}

func Load() (*Config, error) {
	// A missing .env is fine; real deployments pass plain env vars.
	_ = godotenv.Load()
	return LoadFrom(defaultPaths...)
}

// LoadFrom reads config.yaml from the first of paths that has one, then
// applies env overrides and defaults.
func LoadFrom(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Allow common env vars without APP_ prefix for Docker/VM deploys
	v.BindEnv("http.port", "HTTP_PORT", "APP_HTTP_PORT")
	v.BindEnv("database.url", "DATABASE_URL", "APP_DATABASE_URL")
	v.BindEnv("redis.url", "REDIS_URL", "APP_REDIS_URL")
	v.BindEnv("nats.url", "NATS_URL", "APP_NATS_URL")
	v.BindEnv("llm.api_key", "OPENAI_API_KEY", "APP_LLM_API_KEY")
	v.BindEnv("llm.model", "OPENAI_MODEL", "APP_LLM_MODEL")
	v.BindEnv("dialogue.timezone", "DEFAULT_TIMEZONE", "APP_DIALOGUE_TIMEZONE")
	v.BindEnv("dialogue.default_language", "DEFAULT_LANGUAGE", "APP_DIALOGUE_DEFAULT_LANGUAGE")
	v.BindEnv("whatsapp.verify_token", "WHATSAPP_VERIFY_TOKEN", "APP_WHATSAPP_VERIFY_TOKEN")
	v.BindEnv("app.environment", "APP_ENVIRONMENT")
	v.BindEnv("logging.level", "LOG_LEVEL")

	SetDefaults(v)

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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "ai-secretary")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")

	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.shutdown_timeout", 30*time.Second)

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("redis.max_retries", 2)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", 3*time.Second)

	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", 2*time.Second)

	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.timeout", 20*time.Second)

	v.SetDefault("session.ttl", 30*time.Minute)
	v.SetDefault("session.max_retries", 3)
	v.SetDefault("session.sweep_interval", 5*time.Minute)

	v.SetDefault("dialogue.default_language", "en")
	v.SetDefault("dialogue.timezone", "Europe/Berlin")
	v.SetDefault("dialogue.default_meeting_duration", 30)
	v.SetDefault("dialogue.default_task_priority", "medium")

	v.SetDefault("opentelemetry.enabled", false)
	v.SetDefault("opentelemetry.service_name", "ai-secretary")
	v.SetDefault("opentelemetry.jaeger.endpoint", "http://localhost:14268/api/traces")
	v.SetDefault("opentelemetry.jaeger.sampler_param", 1.0)

	v.SetDefault("prometheus.enabled", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("rate_limiting.enabled", true)
	v.SetDefault("rate_limiting.max_requests", 120)
	v.SetDefault("rate_limiting.window", time.Minute)

	v.SetDefault("circuit_breaker.enabled", true)
	v.SetDefault("circuit_breaker.failure_threshold", 5)
	v.SetDefault("circuit_breaker.timeout", 30*time.Second)

	v.SetDefault("cors.enabled", true)
	v.SetDefault("cors.allowed_origins", []string{"*"})
}

func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http.port %d", c.HTTP.Port)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	if c.Session.MaxRetries < 1 {
		return fmt.Errorf("session.max_retries must be at least 1")
	}
	if _, err := time.LoadLocation(c.Dialogue.Timezone); err != nil {
		return fmt.Errorf("invalid dialogue.timezone %q: %w", c.Dialogue.Timezone, err)
	}
	return nil
}
