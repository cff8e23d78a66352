package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Supabase  SupabaseConfig  `yaml:"supabase"`
	AWS       AWSConfig       `yaml:"aws"`
	Redis     RedisConfig     `yaml:"redis"`
	Feed      FeedConfig      `yaml:"feed"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port        int    `yaml:"port"`
	Host        string `yaml:"host"`
	CORSOrigin  string `yaml:"cors_origin"`
	BodyLimitMB int64  `yaml:"body_limit_mb"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// SupabaseConfig holds the auth provider configuration
type SupabaseConfig struct {
	URL       string `yaml:"url"`
	Key       string `yaml:"key"`
	JWTSecret string `yaml:"jwt_secret"` // verify tokens locally when set
}

// AWSConfig holds S3 configuration for post images
type AWSConfig struct {
	Region    string `yaml:"region"`
	S3Bucket  string `yaml:"s3_bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Endpoint  string `yaml:"endpoint"`
	PublicURL string `yaml:"public_url"`
}

// RedisConfig holds cache configuration
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// FeedConfig holds feed pagination settings
type FeedConfig struct {
	PageSize      int  `yaml:"page_size"`
	ExactPageSize bool `yaml:"exact_page_size"`
}

// RateLimitConfig holds per-client limits for register and login
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        5000,
			CORSOrigin:  "http://localhost:4200",
			BodyLimitMB: 50,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			SSLMode: "disable",
		},
		AWS:       AWSConfig{Region: "us-east-1"},
		Feed:      FeedConfig{PageSize: 10},
		RateLimit: RateLimitConfig{RPS: 5, Burst: 10},
		Log:       LogConfig{Level: "info"},
	}
}

// Load reads configuration from a YAML file, then applies .env and environment overrides.
// A missing file is not an error: defaults and the environment are enough to run.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// .env is optional, real environment variables win over it
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	setString("SUPABASE_URL", &c.Supabase.URL)
	setString("SUPABASE_KEY", &c.Supabase.Key)
	setString("SUPABASE_JWT_SECRET", &c.Supabase.JWTSecret)
	setString("DATABASE_URL", &c.Database.URL)
	setString("REDIS_ADDR", &c.Redis.Addr)
	setString("REDIS_PASSWORD", &c.Redis.Password)
	setString("AWS_REGION", &c.AWS.Region)
	setString("AWS_S3_BUCKET", &c.AWS.S3Bucket)
	setString("AWS_ACCESS_KEY_ID", &c.AWS.AccessKey)
	setString("AWS_SECRET_ACCESS_KEY", &c.AWS.SecretKey)
	setString("CORS_ORIGIN", &c.Server.CORSOrigin)
	setString("LOG_LEVEL", &c.Log.Level)

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}

	return nil
}

// Validate checks that the required settings are present
func (c *Config) Validate() error {
	if c.Supabase.URL == "" {
		return fmt.Errorf("supabase.url (SUPABASE_URL) is required")
	}
	if c.Supabase.Key == "" {
		return fmt.Errorf("supabase.key (SUPABASE_KEY) is required")
	}
	if c.Database.URL == "" && c.Database.DBName == "" {
		return fmt.Errorf("database.url (DATABASE_URL) or database.dbname is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if c.Feed.PageSize <= 0 {
		return fmt.Errorf("feed.page_size must be positive")
	}
	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// BodyLimit returns the request body limit in bytes
func (c *ServerConfig) BodyLimit() int64 {
	return c.BodyLimitMB << 20
}
