// Command userlist runs the reference collection against the configured user
// listing and exits non-zero unless it returns the expected names.
package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/reqres-client/internal/config"
	"github.com/Sternrassler/reqres-client/pkg/client"
	"github.com/Sternrassler/reqres-client/pkg/logging"
	"github.com/Sternrassler/reqres-client/pkg/metrics"
	"github.com/Sternrassler/reqres-client/pkg/pagination"
)

// Reference call and its expected result.
const (
	smokeMinID = 5
	smokeMaxID = 8
)

var smokeExpected = []string{"Charles Morris", "Emma Wong", "Eve Holt", "Janet Weaver"}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.Setup(cfg.Logging), "userlist")

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error().Err(err).Msg("Smoke check failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	clientCfg := cfg.ClientConfig()
	clientCfg.Logger = &logger

	api, err := client.New(clientCfg)
	if err != nil {
		return fmt.Errorf("create user API client: %w", err)
	}

	collectorCfg := cfg.CollectorConfig()
	collectorCfg.Logger = &logger
	collector := pagination.NewCollector(api, collectorCfg)

	logger.Info().
		Str("base_url", cfg.BaseURL).
		Int("max_pages", cfg.MaxPages).
		Msg("Starting user list collection")

	names, err := collector.Collect(ctx, smokeMinID, smokeMaxID)
	logMetrics(logger)
	if err != nil {
		return fmt.Errorf("collect users %d-%d: %w", smokeMinID, smokeMaxID, err)
	}

	if !slices.Equal(names, smokeExpected) {
		return fmt.Errorf("collect users %d-%d: got %q, want %q", smokeMinID, smokeMaxID, names, smokeExpected)
	}

	logger.Info().Strs("names", names).Msg("Smoke check passed")
	return nil
}

func logMetrics(logger zerolog.Logger) {
	snapshot, err := metrics.Snapshot(metrics.Gatherer)
	if err != nil {
		logger.Debug().Err(err).Msg("Metrics snapshot unavailable")
		return
	}

	event := logger.Debug()
	for name, value := range snapshot {
		event = event.Float64(name, value)
	}
	event.Msg("Metrics snapshot")
}
