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

	"github.com/kelvinosei/momograph/internal/config"
	"github.com/kelvinosei/momograph/internal/dataset"
	"github.com/kelvinosei/momograph/internal/graph"
	"github.com/kelvinosei/momograph/internal/ingest"
	"github.com/kelvinosei/momograph/internal/logging"
	"github.com/kelvinosei/momograph/internal/repository"
)

func main() {
	var (
		input     = flag.String("input", "data/raw/sampled_momo_transactions.csv", "path to the enriched CSV")
		batchSize = flag.Int("batch-size", 500, "rows per write transaction")
		workers   = flag.Int("workers", 1, "concurrent batch writers (1 = strictly ordered)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "ingest", "runId", uuid.NewString())

	records, err := dataset.ReadRecords(*input)
	if err != nil {
		if errors.Is(err, dataset.ErrMissingInput) {
			logger.Error("enriched dataset not found; run the synth stage first", "path", *input)
		} else {
			logger.Error("failed to read enriched dataset", "error", err, "path", *input)
		}
		os.Exit(1)
	}
	if len(records) == 0 {
		logger.Error("enriched dataset empty", "path", *input)
		os.Exit(1)
	}

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

	repo := repository.New(client)

	logger.Info("ensuring uniqueness constraints")
	if err := repo.EnsureConstraints(ctx); err != nil {
		logger.Error("constraint setup failed", "error", err)
		os.Exit(1)
	}

	start := time.Now()
	logger.Info("ingesting records", "rows", len(records), "batchSize", *batchSize, "workers", *workers)

	runner := ingest.NewRunner(repo, *batchSize, *workers, logger)
	if err := runner.Run(ctx, records); err != nil {
		logger.Error("ingestion failed; re-invoke after resolving, replays are safe", "error", err)
		os.Exit(1)
	}

	logger.Info("ingestion complete", "duration", time.Since(start).String(), "rows", len(records))
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
