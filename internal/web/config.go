package web

import (
	"github.com/addrfmt/internal/config"
)

// Config represents the web server configuration
type Config struct {
	Server ServerConfig
	Auth   AuthConfig
	Debug  bool
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port int
	Host string
}

// AuthConfig contains API key settings. An empty key disables the check.
type AuthConfig struct {
	APIKey string
}

// ConfigFromEnv reads WEB_HOST, WEB_PORT and API_KEY
func ConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port: config.GetEnvInt("WEB_PORT", 8080),
			Host: config.GetEnv("WEB_HOST", "localhost"),
		},
		Auth: AuthConfig{
			APIKey: config.GetEnv("API_KEY", ""),
		},
	}
}
