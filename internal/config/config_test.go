package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NEO4J_URI", "")
	t.Setenv("NEO4J_DATABASE", "")
	t.Setenv("NEO4J_USER", "")
	t.Setenv("NEO4J_PASSWORD", "")
	t.Setenv("NEO4J_MAX_CONNECTIONS", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("LOG_INCLUDE_CALLER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "bolt://localhost:7687", cfg.Graph.URI)
	assert.Equal(t, "neo4j", cfg.Graph.Database)
	assert.Equal(t, "neo4j", cfg.Graph.Username)
	assert.Empty(t, cfg.Graph.Password)
	assert.Equal(t, 10, cfg.Graph.MaxConnections)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.False(t, cfg.Logging.IncludeCaller)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("NEO4J_URI", "neo4j://db.internal:7687")
	t.Setenv("NEO4J_DATABASE", "momo")
	t.Setenv("NEO4J_USER", "pipeline")
	t.Setenv("NEO4J_PASSWORD", "secret")
	t.Setenv("NEO4J_MAX_CONNECTIONS", "25")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_INCLUDE_CALLER", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "neo4j://db.internal:7687", cfg.Graph.URI)
	assert.Equal(t, "momo", cfg.Graph.Database)
	assert.Equal(t, "pipeline", cfg.Graph.Username)
	assert.Equal(t, "secret", cfg.Graph.Password)
	assert.Equal(t, 25, cfg.Graph.MaxConnections)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Logging.IncludeCaller)
}

func TestLoadRejectsNonPositiveMaxConnections(t *testing.T) {
	t.Setenv("NEO4J_MAX_CONNECTIONS", "-1")

	_, err := Load()
	assert.ErrorContains(t, err, "NEO4J_MAX_CONNECTIONS")
}

func TestLoadIgnoresMalformedOptionalValues(t *testing.T) {
	t.Setenv("NEO4J_MAX_CONNECTIONS", "lots")
	t.Setenv("LOG_INCLUDE_CALLER", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Graph.MaxConnections)
	assert.False(t, cfg.Logging.IncludeCaller)
}
