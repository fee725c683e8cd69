package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config aggregates application configuration values.
type Config struct {
	Graph   GraphConfig
	Logging LoggingConfig
}

// GraphConfig describes connectivity to the Neo4j database.
type GraphConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
}

const (
	defaultGraphURI         = "bolt://localhost:7687"
	defaultGraphDatabase    = "neo4j"
	defaultGraphUser        = "neo4j"
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultGraphMaxSessions = 10
)

// Load reads configuration from the environment, applying defaults. A .env
// file in the working directory is honoured when present so all pipeline
// commands can share one credentials file.
func Load() (Config, error) {
	// Best effort; a missing .env file is not an error.
	_ = godotenv.Load()

	cfg := Config{
		Graph: GraphConfig{
			URI:            valueOrDefault("NEO4J_URI", defaultGraphURI),
			Database:       valueOrDefault("NEO4J_DATABASE", defaultGraphDatabase),
			Username:       valueOrDefault("NEO4J_USER", defaultGraphUser),
			Password:       os.Getenv("NEO4J_PASSWORD"),
			MaxConnections: parseIntWithDefault("NEO4J_MAX_CONNECTIONS", defaultGraphMaxSessions),
		},
		Logging: LoggingConfig{
			Level:         valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format:        valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
			IncludeCaller: parseBoolWithDefault("LOG_INCLUDE_CALLER", false),
		},
	}

	if cfg.Graph.MaxConnections <= 0 {
		return Config{}, fmt.Errorf("NEO4J_MAX_CONNECTIONS must be positive, got %d", cfg.Graph.MaxConnections)
	}

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}
