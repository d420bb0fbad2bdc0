package config

import "time"

type Config struct {
	App          AppConfig          `mapstructure:"app"`
	HTTP         HTTPConfig         `mapstructure:"http"`
	Telegram     TelegramConfig     `mapstructure:"telegram"`
	Gemini       GeminiConfig       `mapstructure:"gemini"`
	Speech       SpeechConfig       `mapstructure:"speech"`
	Storage      StorageConfig      `mapstructure:"storage"`
	Cache        CacheConfig        `mapstructure:"cache"`
	Queue        QueueConfig        `mapstructure:"queue"`
	Vault        VaultConfig        `mapstructure:"vault"`
	Notification NotificationConfig `mapstructure:"notification"`
	Breaker      BreakerConfig      `mapstructure:"breaker"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// HTTPConfig configures the ops server (health, metrics, records, stats).
type HTTPConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type TelegramConfig struct {
	Token       string        `mapstructure:"token"`
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

type GeminiConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Temperature float32       `mapstructure:"temperature"`
	MaxTokens   int32         `mapstructure:"max_tokens"`
	TopP        float32       `mapstructure:"top_p"`
}

type SpeechConfig struct {
	RecognizerKey string        `mapstructure:"recognizer_key"`
	FFmpegPath    string        `mapstructure:"ffmpeg_path"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type StorageConfig struct {
	Backend  string `mapstructure:"backend"` // "jsonfile" or "postgres"
	DataFile string `mapstructure:"data_file"`
	Database string `mapstructure:"database"` // Postgres URL when backend=postgres
}

type CacheConfig struct {
	RedisURL  string        `mapstructure:"redis_url"` // empty = in-memory cache
	AdviceTTL time.Duration `mapstructure:"advice_ttl"`
}

type QueueConfig struct {
	Backend     string `mapstructure:"backend"` // "", "nats" or "rabbitmq"
	NATSURL     string `mapstructure:"nats_url"`
	RabbitMQURL string `mapstructure:"rabbitmq_url"`
}

type VaultConfig struct {
	Address string `mapstructure:"address"`
	Token   string `mapstructure:"token"`
}

type NotificationConfig struct {
	Email EmailConfig `mapstructure:"email"`
}

type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Provider string `mapstructure:"provider"` // "sendgrid"
	APIKey   string `mapstructure:"api_key"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
	To       string `mapstructure:"to"` // clinician inbox
}

type BreakerConfig struct {
	MaxRequests      uint32        `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
