package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in a config
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// ValidateConfig checks that the configuration is usable in its environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if cfg.ServerPort == "" {
		add("SERVER_PORT", "is required")
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" {
			add("DB_HOST", "is required for postgres")
		}
		if cfg.DBName == "" {
			add("DB_NAME", "is required for postgres")
		}
		if cfg.DBUser == "" {
			add("DB_USER", "is required for postgres")
		}
	case "sqlite":
		if cfg.DBPath == "" {
			add("DB_PATH", "is required for sqlite")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	if cfg.JWTSecret == "" {
		add("JWT_SECRET", "is required")
	}
	if cfg.JWTExpiresMinutes <= 0 {
		add("JWT_EXPIRES_MINUTES", "must be positive")
	}

	if cfg.Environment.IsProduction() {
		if cfg.JWTSecret == DefaultJWTSecret {
			add("JWT_SECRET", "must be changed from the default value in production")
		} else if len(cfg.JWTSecret) < 32 {
			add("JWT_SECRET", "must be at least 32 characters in production")
		}
		if cfg.DBDriver == "postgres" && cfg.DBPassword == "" {
			add("DB_PASSWORD", "is required in production")
		}
	}

	if cfg.RecipeCreateLimit <= 0 || cfg.RecipeCreateWindow <= 0 {
		add("RATE_LIMIT_RECIPE_CREATE", "limit and window must be positive")
	}
	if cfg.LikeLimit <= 0 || cfg.LikeWindow <= 0 {
		add("RATE_LIMIT_LIKE", "limit and window must be positive")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
