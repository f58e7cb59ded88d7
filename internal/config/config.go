package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Port             string
	DatabaseURI      string
	TrustProxy       bool
	ResourcesDir     string
	PublicDir        string
	UploadLimitBytes int
	FFprobePath      string

	Auth   AuthConfig
	Joke   JokeConfig
	Redis  RedisConfig
	Rabbit RabbitConfig
	Minio  MinioConfig
	Log    LogConfig
}

// AuthConfig contains token settings.
type AuthConfig struct {
	JWTSecret string
	Issuer    string
	TokenTTL  time.Duration
}

// JokeConfig controls the decorative joke enrichment.
type JokeConfig struct {
	URL      string // empty disables the enrichment
	Timeout  time.Duration
	CacheTTL time.Duration
}

// RedisConfig is optional; an empty URL disables Redis.
type RedisConfig struct {
	URL string
}

// RabbitConfig is optional; an empty URL disables resource events.
type RabbitConfig struct {
	URL   string
	Queue string
}

// MinioConfig is optional; an empty endpoint keeps resources on local disk.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Enabled reports whether a MinIO endpoint is configured.
func (m MinioConfig) Enabled() bool {
	return m.Endpoint != ""
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// String returns a representation of the config with secrets masked.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %s, Resources: %s, Minio: %t, Rabbit: %t, Redis: %t, Auth: *** (masked) ***}",
		c.Port, c.ResourcesDir, c.Minio.Enabled(), c.Rabbit.URL != "", c.Redis.URL != "")
}

// SetDefaults registers the default value of every known key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("DATABASE_URI", "mongodb://localhost:27017/songvault")
	v.SetDefault("TRUST_PROXY", true)
	v.SetDefault("RESOURCES_DIR", "static/resources")
	v.SetDefault("PUBLIC_DIR", "public")
	v.SetDefault("UPLOAD_LIMIT_BYTES", 10*1024*1024)
	v.SetDefault("FFPROBE_PATH", "ffprobe")

	v.SetDefault("JWT_ISSUER", "http://localhost")
	v.SetDefault("TOKEN_TTL", 72*time.Hour)

	v.SetDefault("JOKE_URL", "https://jokefather.com/api/jokes/random")
	v.SetDefault("JOKE_TIMEOUT", 2*time.Second)
	v.SetDefault("JOKE_CACHE_TTL", time.Duration(0))

	v.SetDefault("RABBITMQ_QUEUE", "resource_events")
	v.SetDefault("MINIO_BUCKET", "songvault")
	v.SetDefault("MINIO_USE_SSL", false)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 5)
	v.SetDefault("LOG_MAX_AGE_DAYS", 30)
	v.SetDefault("LOG_COMPRESS", true)
}

// Load reads configuration from the environment (and a .env file if present).
// It fails when JWT_SECRET is not set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on existing environment variables and defaults.")
	}

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	// MONGODB_URI is accepted for deployments configured for the previous service.
	if err := v.BindEnv("DATABASE_URI", "DATABASE_URI", "MONGODB_URI"); err != nil {
		return nil, fmt.Errorf("failed to bind DATABASE_URI: %w", err)
	}

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:             v.GetString("PORT"),
		DatabaseURI:      v.GetString("DATABASE_URI"),
		TrustProxy:       v.GetBool("TRUST_PROXY"),
		ResourcesDir:     v.GetString("RESOURCES_DIR"),
		PublicDir:        v.GetString("PUBLIC_DIR"),
		UploadLimitBytes: v.GetInt("UPLOAD_LIMIT_BYTES"),
		FFprobePath:      v.GetString("FFPROBE_PATH"),
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
			Issuer:    v.GetString("JWT_ISSUER"),
			TokenTTL:  v.GetDuration("TOKEN_TTL"),
		},
		Joke: JokeConfig{
			URL:      v.GetString("JOKE_URL"),
			Timeout:  v.GetDuration("JOKE_TIMEOUT"),
			CacheTTL: v.GetDuration("JOKE_CACHE_TTL"),
		},
		Redis: RedisConfig{
			URL: v.GetString("REDIS_URL"),
		},
		Rabbit: RabbitConfig{
			URL:   v.GetString("RABBITMQ_URL"),
			Queue: v.GetString("RABBITMQ_QUEUE"),
		},
		Minio: MinioConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
		},
		Log: LogConfig{
			Level:      v.GetString("LOG_LEVEL"),
			File:       v.GetString("LOG_FILE"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
			Compress:   v.GetBool("LOG_COMPRESS"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("DATABASE_URI environment variable is not set")
	}
	if cfg.UploadLimitBytes <= 0 {
		return nil, fmt.Errorf("UPLOAD_LIMIT_BYTES must be positive, got %d", cfg.UploadLimitBytes)
	}

	return cfg, nil
}
