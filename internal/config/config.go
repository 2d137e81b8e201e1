package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Queue    QueueConfig
	Pipeline PipelineConfig
	Media    MediaConfig
	Auth     AuthConfig
	Mail     MailConfig
	Metrics  MetricsConfig
	Tracing  TracingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxUploadSize   int64
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	UseSSL          bool
}

// QueueConfig holds message queue configuration
type QueueConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Vhost    string
}

// PipelineConfig holds configuration for the subtitling pipeline: the
// transcription and translation inference endpoints and the tuning knobs
// applied to them.
type PipelineConfig struct {
	// WhisperURL is the base URL of the speech-recognition inference server.
	WhisperURL string
	// TranslatorURL is the base URL of the multilingual translation server.
	TranslatorURL string
	// BeamSize is the beam search width passed to the transcription engine.
	BeamSize int
	// MaxTextLength caps the token budget of a single segment sent for
	// translation; longer segments are truncated.
	MaxTextLength int
	// InferenceConcurrency bounds how many blocking model calls may run at
	// once across the process.
	InferenceConcurrency int
	// AllowUnsupportedTarget controls what happens when the translation
	// model does not know the requested target language: true lets the
	// model decode unconstrained (output language not guaranteed), false
	// keeps the original text for the whole request.
	AllowUnsupportedTarget bool
	// RequestTimeout bounds a single inference HTTP call.
	RequestTimeout time.Duration
}

// MediaConfig holds ffmpeg configuration
type MediaConfig struct {
	FFmpegPath  string
	FFprobePath string
	TempDir     string
}

// AuthConfig holds account/auth configuration
type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	ResetTokenTTL time.Duration
	FrontendURL   string
}

// MailConfig holds SMTP configuration for password reset mail
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// MetricsConfig holds the metrics endpoint configuration
type MetricsConfig struct {
	Port int
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled        bool
	JaegerEndpoint string
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.readTimeout", "30s")
	viper.SetDefault("server.writeTimeout", "5m")
	viper.SetDefault("server.shutdownTimeout", "10s")
	viper.SetDefault("server.maxUploadSize", 2*1024*1024*1024) // 2GB

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "sublingo")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.maxConns", 25)
	viper.SetDefault("database.minConns", 5)

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Storage defaults
	viper.SetDefault("storage.endpoint", "localhost:9000")
	viper.SetDefault("storage.accessKeyID", "minioadmin")
	viper.SetDefault("storage.secretAccessKey", "minioadmin")
	viper.SetDefault("storage.bucketName", "videos")
	viper.SetDefault("storage.region", "us-east-1")
	viper.SetDefault("storage.useSSL", false)

	// Queue defaults
	viper.SetDefault("queue.host", "localhost")
	viper.SetDefault("queue.port", 5672)
	viper.SetDefault("queue.user", "guest")
	viper.SetDefault("queue.password", "guest")
	viper.SetDefault("queue.vhost", "/")

	// Pipeline defaults
	viper.SetDefault("pipeline.whisperURL", "http://localhost:8178")
	viper.SetDefault("pipeline.translatorURL", "http://localhost:8179")
	viper.SetDefault("pipeline.beamSize", 5)
	viper.SetDefault("pipeline.maxTextLength", 1024)
	viper.SetDefault("pipeline.inferenceConcurrency", 2)
	viper.SetDefault("pipeline.allowUnsupportedTarget", true)
	viper.SetDefault("pipeline.requestTimeout", "5m")

	// Media defaults
	viper.SetDefault("media.ffmpegPath", "ffmpeg")
	viper.SetDefault("media.ffprobePath", "ffprobe")
	viper.SetDefault("media.tempDir", "/tmp/sublingo")

	// Auth defaults
	viper.SetDefault("auth.jwtSecret", "")
	viper.SetDefault("auth.tokenTTL", "168h") // 7 days
	viper.SetDefault("auth.resetTokenTTL", "1h")
	viper.SetDefault("auth.frontendURL", "http://localhost:3000")

	// Mail defaults
	viper.SetDefault("mail.host", "smtp.gmail.com")
	viper.SetDefault("mail.port", 587)
	viper.SetDefault("mail.username", "")
	viper.SetDefault("mail.password", "")
	viper.SetDefault("mail.from", "")

	// Metrics defaults
	viper.SetDefault("metrics.port", 9090)

	// Tracing defaults
	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("tracing.jaegerEndpoint", "http://localhost:14268/api/traces")
}
