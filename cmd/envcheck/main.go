package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelvinosei/momograph/internal/analytics"
	"github.com/kelvinosei/momograph/internal/config"
	"github.com/kelvinosei/momograph/internal/graph"
	"github.com/kelvinosei/momograph/internal/logging"
	"github.com/kelvinosei/momograph/internal/repository"
)

// envcheck verifies Bolt connectivity and reports whether the GDS plugin is
// installed. A missing plugin is a warning here, not a failure: ingestion
// works without it, only scoring needs it.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "envcheck")
	logger.Info("checking environment", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := graph.NewNeo4jClient(ctx, graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	})
	if err != nil {
		logger.Error("graph connection failed; check NEO4J_URI, NEO4J_USER, and NEO4J_PASSWORD", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = client.Close(context.Background())
	}()

	total, err := repository.New(client).CountNodes(ctx)
	if err != nil {
		logger.Error("test query failed", "error", err)
		os.Exit(1)
	}
	logger.Info("graph connection ok", "nodes", total)

	version, err := analytics.NewEngine(client).Version(ctx)
	if err != nil {
		if errors.Is(err, analytics.ErrUnavailable) {
			logger.Warn("GDS plugin not installed; the score stage will not run", "error", err)
			return
		}
		logger.Error("GDS probe failed", "error", err)
		os.Exit(1)
	}
	logger.Info("GDS available", "version", version)
}
