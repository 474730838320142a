package config

import (
	"fmt"
	"os"
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

// requirements maps each environment to the variables that must be set
// explicitly. Development and test run entirely on defaults.
var requirements = map[Environment][]string{
	Development: {},
	Test:        {},
	CI: {
		"DB_HOST",
		"DB_PORT",
		"DB_USER",
		"DB_PASSWORD",
		"DB_NAME",
	},
	Production: {
		"SERVER_PORT",
		"SERVER_HOST",
		"DB_PASSWORD",
		"DB_SSL_MODE",
	},
}

// ValidateConfig checks the configuration against the requirements for env.
func ValidateConfig(cfg *Config, env Environment) error {
	var errs []string

	for _, key := range requirements[env] {
		if os.Getenv(key) == "" {
			errs = append(errs, fmt.Sprintf("required environment variable %s is not set", key))
		}
	}

	// A full connection URL satisfies every database requirement.
	if cfg.DatabaseURL != "" {
		filtered := errs[:0]
		for _, e := range errs {
			if !strings.Contains(e, "DB_") {
				filtered = append(filtered, e)
			}
		}
		errs = filtered
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "\n"))
	}

	return nil
}
