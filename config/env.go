package config

import (
	"os"
	"strings"
)

// Environment is the deployment the service runs in
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

var environmentAliases = map[string]Environment{
	"dev":         Development,
	"development": Development,
	"local":       Development,
	"test":        Test,
	"testing":     Test,
	"prod":        Production,
	"production":  Production,
}

// ParseEnvironment maps an ENV value onto a known environment. Unknown or
// empty values fall back to Development.
func ParseEnvironment(raw string) Environment {
	if env, ok := environmentAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return env
	}
	return Development
}

// GetEnvironment reads ENV, with CI=true taking precedence
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}
	return ParseEnvironment(os.Getenv("ENV"))
}

func (e Environment) IsProduction() bool {
	return e == Production
}

// PrettyLogs reports whether logs should go to a human readable console writer
func (e Environment) PrettyLogs() bool {
	return e == Development
}
