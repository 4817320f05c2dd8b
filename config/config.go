package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultJWTSecret is only accepted outside production.
const DefaultJWTSecret = "savorly-dev-secret-change-me"

// Config holds all configuration for the application
type Config struct {
	Environment Environment `mapstructure:"-"`

	// Server configuration
	ServerHost string `mapstructure:"SERVER_HOST"`
	ServerPort string `mapstructure:"SERVER_PORT"`

	// Database configuration
	DBDriver   string `mapstructure:"DB_DRIVER"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSL_MODE"`
	DBPath     string `mapstructure:"DB_PATH"`

	// Redis configuration
	RedisURL      string `mapstructure:"REDIS_URL"`
	RedisHost     string `mapstructure:"REDIS_HOST"`
	RedisPort     string `mapstructure:"REDIS_PORT"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// JWT configuration
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	JWTIssuer         string `mapstructure:"JWT_ISSUER"`
	JWTAudience       string `mapstructure:"JWT_AUDIENCE"`
	JWTExpiresMinutes int    `mapstructure:"JWT_EXPIRES_MINUTES"`

	// Comma separated list of origins for CORS
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	// Recipe image storage; uploads are disabled when the bucket is empty
	S3BucketName string `mapstructure:"S3_BUCKET_NAME"`
	AWSRegion    string `mapstructure:"AWS_REGION"`
	S3Endpoint   string `mapstructure:"S3_ENDPOINT"`
	S3PublicURL  string `mapstructure:"S3_PUBLIC_URL"`

	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Rate limiting
	RecipeCreateLimit  int           `mapstructure:"RATE_LIMIT_RECIPE_CREATE"`
	RecipeCreateWindow time.Duration `mapstructure:"RATE_LIMIT_RECIPE_CREATE_WINDOW"`
	LikeLimit          int           `mapstructure:"RATE_LIMIT_LIKE"`
	LikeWindow         time.Duration `mapstructure:"RATE_LIMIT_LIKE_WINDOW"`
}

// LoadConfig builds the configuration from defaults, environment variables and
// Docker secrets, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	v := viper.New()
	setDefaults(v, env)
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Environment = env

	switch env {
	case CI:
		loadCIOverrides(cfg)
	case Development, Test, Production:
		loadSecrets(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, env Environment) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "savorly")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_PATH", "savorly.db")

	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "")
	if env != Production {
		v.SetDefault("JWT_SECRET", DefaultJWTSecret)
	}
	v.SetDefault("JWT_ISSUER", "savorly")
	v.SetDefault("JWT_AUDIENCE", "savorly-web")
	v.SetDefault("JWT_EXPIRES_MINUTES", 120)

	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173")

	v.SetDefault("S3_BUCKET_NAME", "")
	v.SetDefault("AWS_REGION", "eu-central-1")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_PUBLIC_URL", "")

	v.SetDefault("LOG_LEVEL", "info")
	if env == Development {
		v.SetDefault("LOG_LEVEL", "debug")
	}

	v.SetDefault("RATE_LIMIT_RECIPE_CREATE", 20)
	v.SetDefault("RATE_LIMIT_RECIPE_CREATE_WINDOW", time.Hour)
	v.SetDefault("RATE_LIMIT_LIKE", 60)
	v.SetDefault("RATE_LIMIT_LIKE_WINDOW", time.Minute)
}

// loadCIOverrides maps the GitHub Actions secrets onto the config
func loadCIOverrides(cfg *Config) {
	if v := os.Getenv("TEST_DB_PASSWORD"); v != "" {
		cfg.DBPassword = v
	}
	if v := os.Getenv("TEST_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("TEST_REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("TEST_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
}

// loadSecrets overrides sensitive values with Docker secrets when present
func loadSecrets(cfg *Config) {
	targets := map[string]*string{
		"db_user":        &cfg.DBUser,
		"db_password":    &cfg.DBPassword,
		"jwt_secret":     &cfg.JWTSecret,
		"redis_password": &cfg.RedisPassword,
		"redis_url":      &cfg.RedisURL,
	}
	for name, field := range targets {
		if value := readSecret(name); value != "" {
			*field = value
		}
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	data, err := os.ReadFile(filepath.Join(secretsDir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Origins returns the configured CORS origins
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// DSN returns the postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Addr is the listen address of the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}
