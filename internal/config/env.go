package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ErrMissingSetting is returned by Require for unset keys
var ErrMissingSetting = errors.New("config: required setting missing")

// envPaths are searched in order; the first readable file wins
var envPaths = []string{".env", "../.env", "../../.env"}

// LoadEnv loads variables from the first .env file found. Variables already
// present in the process environment are left untouched.
func LoadEnv() error {
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			return fmt.Errorf("failed to load %s: %w", envPath, err)
		}
		return nil
	}
	return nil
}

// GetEnv gets environment variable with default
func GetEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt gets integer environment variable with default
func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvBool gets boolean environment variable with default
func GetEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	return defaultValue
}

// Require returns the trimmed value of key or ErrMissingSetting
func Require(key string) (string, error) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("%w: %s must be set", ErrMissingSetting, key)
}
