package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kelvinosei/momograph/internal/config"
	"github.com/kelvinosei/momograph/internal/dataset"
	"github.com/kelvinosei/momograph/internal/logging"
	"github.com/kelvinosei/momograph/internal/synth"
)

func main() {
	cfg := synth.DefaultConfig()
	var (
		input            = flag.String("input", "data/raw/Dataset_Momo.csv", "path to the raw transaction export")
		output           = flag.String("output", "data/raw/sampled_momo_transactions.csv", "path for the enriched CSV")
		sampleRows       = flag.Int("sample-rows", cfg.SampleRows, "row cap before synthesis (0 disables sampling)")
		seed             = flag.Int64("seed", cfg.Seed, "random seed for reproducible synthesis")
		startDate        = flag.String("start-date", cfg.StartDate.Format(time.DateOnly), "epoch added to the hour offsets (YYYY-MM-DD)")
		deviceShareRate  = flag.Float64("device-share-rate", cfg.DeviceShareRate, "probability of starting a shared-device group")
		deviceMinGroup   = flag.Int("device-min-group", cfg.DeviceMinGroup, "minimum shared-device group size")
		deviceMaxGroup   = flag.Int("device-max-group", cfg.DeviceMaxGroup, "maximum shared-device group size")
		contactShareRate = flag.Float64("contact-share-rate", cfg.ContactShareRate, "probability of starting a shared phone/email group")
		merchantRate     = flag.Float64("merchant-rate", cfg.MerchantRate, "fraction of receivers marked as merchants")
		locationCount    = flag.Int("location-count", cfg.LocationCount, "size of the location pool")
	)
	flag.Parse()

	appCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(appCfg.Logging).With("component", "synth")

	start, err := time.Parse(time.DateOnly, *startDate)
	if err != nil {
		logger.Error("invalid start date", "value", *startDate, "error", err)
		os.Exit(1)
	}

	cfg.Seed = *seed
	cfg.SampleRows = *sampleRows
	cfg.StartDate = start
	cfg.DeviceShareRate = clampProbability(*deviceShareRate)
	cfg.DeviceMinGroup = *deviceMinGroup
	cfg.DeviceMaxGroup = *deviceMaxGroup
	cfg.ContactShareRate = clampProbability(*contactShareRate)
	cfg.MerchantRate = clampProbability(*merchantRate)
	cfg.LocationCount = *locationCount

	logger.Info("reading raw export", "path", *input)
	raw, err := dataset.ReadRaw(*input)
	if err != nil {
		if errors.Is(err, dataset.ErrMissingInput) {
			logger.Error("raw export not found; place the source CSV at the expected path", "path", *input)
		} else {
			logger.Error("failed to read raw export", "error", err)
		}
		os.Exit(1)
	}

	if cfg.SampleRows > 0 && len(raw) > cfg.SampleRows {
		logger.Info("sampling rows", "cap", cfg.SampleRows, "seed", cfg.Seed)
		raw = dataset.Sample(raw, cfg.SampleRows, cfg.Seed)
	} else {
		logger.Info("using full data", "rows", len(raw))
	}

	logger.Info("building core fields")
	records := dataset.BuildRecords(raw, cfg.StartDate)

	logger.Info("assigning shared attributes and roles", "identities", len(records))
	records = synth.New(cfg).Enrich(records)

	if err := dataset.WriteRecords(*output, records); err != nil {
		logger.Error("failed to write enriched dataset", "error", err)
		os.Exit(1)
	}

	logger.Info("saved enriched dataset", "rows", len(records), "path", *output)
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
