package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Required secrets. The process refuses to start without them (they may also
// arrive via Vault, resolved in main before Validate is called).
var (
	ErrMissingTelegramToken = errors.New("config: TELEGRAM_BOT_TOKEN is required")
	ErrMissingGeminiKey     = errors.New("config: GEMINI_API_KEY is required")
)

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/app/configs")

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Allow common env vars without APP_ prefix for Docker/VM deploys
	viper.BindEnv("telegram.token", "TELEGRAM_BOT_TOKEN", "APP_TELEGRAM_TOKEN")
	viper.BindEnv("gemini.api_key", "GEMINI_API_KEY", "APP_GEMINI_API_KEY")
	viper.BindEnv("storage.database", "DATABASE_URL", "APP_STORAGE_DATABASE")
	viper.BindEnv("cache.redis_url", "REDIS_URL", "APP_CACHE_REDIS_URL")
	viper.BindEnv("queue.nats_url", "NATS_URL", "APP_QUEUE_NATS_URL")
	viper.BindEnv("queue.rabbitmq_url", "RABBITMQ_URL")
	viper.BindEnv("vault.address", "VAULT_ADDR")
	viper.BindEnv("vault.token", "VAULT_TOKEN")
	viper.BindEnv("notification.email.api_key", "SENDGRID_API_KEY")
	viper.BindEnv("http.port", "HTTP_PORT", "APP_HTTP_PORT")
	viper.BindEnv("app.environment", "APP_ENVIRONMENT")
	viper.BindEnv("logging.level", "LOG_LEVEL")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// no config file: env vars only
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("app.name", "arogya-bot")
	viper.SetDefault("app.version", "v1.0.0")
	viper.SetDefault("app.environment", "development")

	viper.SetDefault("http.enabled", true)
	viper.SetDefault("http.port", 8080)
	viper.SetDefault("http.read_timeout", 10*time.Second)
	viper.SetDefault("http.write_timeout", 10*time.Second)

	viper.SetDefault("telegram.poll_timeout", 30*time.Second)
	viper.SetDefault("telegram.http_timeout", 50*time.Second)

	viper.SetDefault("gemini.model", "gemini-2.5-flash")
	viper.SetDefault("gemini.timeout", 30*time.Second)
	viper.SetDefault("gemini.temperature", 0.3)
	viper.SetDefault("gemini.max_tokens", 500)
	viper.SetDefault("gemini.top_p", 0.8)

	viper.SetDefault("speech.ffmpeg_path", "ffmpeg")
	viper.SetDefault("speech.timeout", 30*time.Second)

	viper.SetDefault("storage.backend", "jsonfile")
	viper.SetDefault("storage.data_file", "users.json")

	viper.SetDefault("cache.advice_ttl", 15*time.Minute)

	viper.SetDefault("breaker.max_requests", 3)
	viper.SetDefault("breaker.interval", time.Minute)
	viper.SetDefault("breaker.timeout", 30*time.Second)
	viper.SetDefault("breaker.failure_threshold", 5)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}

// Validate enforces the required secrets after every source (env, file,
// Vault) has had a chance to supply them.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return ErrMissingTelegramToken
	}
	if c.Gemini.APIKey == "" {
		return ErrMissingGeminiKey
	}
	return nil
}
