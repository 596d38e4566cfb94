package utils

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const ENV_FILENAME = ".env"

// InitEnvironmentVariables loads the .env file when one is present. Variables
// already set in the process environment always win over the file.
func InitEnvironmentVariables() error {
	if os.Getenv("ENV") == "production" {
		log.Info("Running in production environment")
		return nil
	}

	if _, err := os.Stat(ENV_FILENAME); os.IsNotExist(err) {
		return nil
	}

	if err := godotenv.Load(ENV_FILENAME); err != nil {
		return fmt.Errorf("failed to load %s file: %v", ENV_FILENAME, err)
	}

	return nil
}

func GetEnv(name string) (string, error) {
	value := os.Getenv(name)
	if value == "" {
		return "", fmt.Errorf("environment variable %s not set", name)
	}

	return value, nil
}

func GetEnvWithDefault(name string, fallback string) string {
	value := os.Getenv(name)
	if value == "" {
		return fallback
	}

	return value
}

// InitLogger sets the logrus level from LOG_LEVEL, falling back to debug when
// DEBUG is truthy and info otherwise.
func InitLogger() {
	levelStr := os.Getenv("LOG_LEVEL")
	if levelStr == "" {
		if os.Getenv("DEBUG") == "true" || os.Getenv("DEBUG") == "1" {
			log.SetLevel(log.DebugLevel)
		} else {
			log.SetLevel(log.InfoLevel)
		}
		return
	}

	level, err := log.ParseLevel(levelStr)
	if err != nil {
		log.Warnf("invalid LOG_LEVEL %q, defaulting to info", levelStr)
		log.SetLevel(log.InfoLevel)
	} else {
		log.SetLevel(level)
	}
}
