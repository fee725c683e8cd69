package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/kelvinosei/momograph/internal/analytics"
	"github.com/kelvinosei/momograph/internal/config"
	"github.com/kelvinosei/momograph/internal/graph"
	"github.com/kelvinosei/momograph/internal/logging"
	"github.com/kelvinosei/momograph/internal/repository"
	"github.com/kelvinosei/momograph/internal/risk"
)

func main() {
	var (
		output = flag.String("output", "data/processed/risk_users.csv", "path for the risk report CSV")
		limit  = flag.Int("limit", risk.DefaultExportLimit, "maximum exported rows")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "score", "runId", uuid.NewString())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, err := buildGraphClient(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	engine := analytics.NewEngine(client)
	repo := repository.New(client)

	version, err := engine.Version(ctx)
	if err != nil {
		if errors.Is(err, analytics.ErrUnavailable) {
			logger.Error("GDS plugin not available; install the graph-data-science plugin and restart the database", "error", err)
		} else {
			logger.Error("GDS probe failed", "error", err)
		}
		os.Exit(1)
	}
	logger.Info("graph data science available", "version", version)

	start := time.Now()

	logger.Info("rebuilding projections")
	if err := engine.RebuildProjections(ctx); err != nil {
		logger.Error("projection rebuild failed", "error", err)
		os.Exit(1)
	}

	logger.Info("running graph algorithms")
	if err := engine.WriteScores(ctx); err != nil {
		logger.Error("algorithm run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("computing device co-users")
	if err := repo.ComputeCoUsers(ctx); err != nil {
		logger.Error("co-user computation failed", "error", err)
		os.Exit(1)
	}

	logger.Info("fetching user features")
	features, err := repo.FetchUserFeatures(ctx)
	if err != nil {
		logger.Error("feature fetch failed", "error", err)
		os.Exit(1)
	}
	if len(features) == 0 {
		logger.Error("no users in graph; run the ingest stage first")
		os.Exit(1)
	}

	logger.Info("applying risk rules", "users", len(features))
	assessments := risk.Classify(features)
	if err := repo.WriteRiskFlags(ctx, assessments, 1000); err != nil {
		logger.Error("writing risk flags failed", "error", err)
		os.Exit(1)
	}

	flagged, err := repo.FetchFlaggedUsers(ctx)
	if err != nil {
		logger.Error("fetching flagged users failed", "error", err)
		os.Exit(1)
	}

	ranked := risk.Rank(flagged, *limit)
	if err := risk.WriteCSV(*output, ranked); err != nil {
		logger.Error("writing risk report failed", "error", err)
		os.Exit(1)
	}

	logger.Info("risk report saved", "rows", len(ranked), "flagged", len(flagged), "path", *output, "duration", time.Since(start).String())
}

func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, error) {
	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	client, err := graph.NewNeo4jClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return client, nil
}
