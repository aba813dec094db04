package config

import (
	"fmt"
	"os"
	"strings"
)

// requiredEnvVars lists the variables that must be set explicitly per
// environment. Development and test fall back to local defaults, so only
// production and CI enforce a full set.
var requiredEnvVars = map[Environment][]string{
	Development: {},
	Test:        {},
	CI: {
		"MONGO_URI",
		"REDIS_HOST",
		"REDIS_PORT",
	},
	Production: {
		"SERVER_PORT",
		"MONGO_URI",
		"MONGO_DB",
		"REDIS_HOST",
		"REDIS_PORT",
		"S3_BUCKET_NAME",
		"AWS_REGION",
	},
}

// ValidateConfig checks that the configuration meets the requirements for
// the current environment.
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()

	var errors []string
	for _, envVar := range requiredEnvVars[env] {
		if value := os.Getenv(envVar); value == "" {
			errors = append(errors, fmt.Sprintf("required environment variable %s is not set", envVar))
		}
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoDB URI must not be empty")
	}
	if cfg.MongoDB == "" {
		errors = append(errors, "MongoDB database name must not be empty")
	}
	if cfg.ServerPort == "" {
		errors = append(errors, "server port must not be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "\n"))
	}

	return nil
}
