package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"routeanalyzer/internal/cluster"
	"routeanalyzer/internal/config"
	"routeanalyzer/internal/events"
	"routeanalyzer/internal/model"
	excelreport "routeanalyzer/internal/report/excel"
	"routeanalyzer/internal/rules"
	"routeanalyzer/internal/service"
	"routeanalyzer/internal/store"
	"routeanalyzer/internal/vantage"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:          "run",
	Short:        "Run one route-rule analysis and publish the resulting rules",
	RunE:         runAnalysis,
	SilenceUsage: true,
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg.Logging)
	logger.Info().Str("version", Version).Str("commit", GitCommit).Msg("routeanalyze starting")

	ctx := cmd.Context()
	if cfg.Run.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Run.Timeout)
		defer cancel()
	}

	central, err := vantage.NewSSHPoint("central", cfg.Vantages.Central.Address, cfg.Vantages.Central.User, cfg.Vantages.Central.KeyPath, logger)
	if err != nil {
		return fmt.Errorf("build central vantage: %w", err)
	}
	defer central.Close()

	domestic, err := vantage.NewSSHPoint("domestic", cfg.Vantages.Domestic.Address, cfg.Vantages.Domestic.User, cfg.Vantages.Domestic.KeyPath, logger)
	if err != nil {
		return fmt.Errorf("build domestic vantage: %w", err)
	}
	defer domestic.Close()

	continentPoints := make(map[string]vantage.Point, len(cfg.Vantages.Continents))
	continentTags := make([]string, 0, len(cfg.Vantages.Continents))
	for _, c := range cfg.Vantages.Continents {
		point, err := vantage.NewSSHPoint(c.Tag, c.Address, c.User, c.KeyPath, logger)
		if err != nil {
			return fmt.Errorf("build %s vantage: %w", c.Tag, err)
		}
		defer point.Close()
		continentPoints[c.Tag] = point
		continentTags = append(continentTags, c.Tag)
	}

	hostStore, err := newHostStore(ctx, cfg.HostStore, logger)
	if err != nil {
		return fmt.Errorf("build host store: %w", err)
	}

	eventStore := newEventStore(cfg.EventStore, logger)

	refreshRunner := service.NewRefreshRunner(hostStore, central, domestic, continentPoints, cfg.Run.RefreshConcurrency, logger)
	clusterer := cluster.New(hostStore, eventStore, logger)

	var summaries []service.ClusterSummary
	analyzerOpts := []service.AnalyzerOption{service.WithVersion(Version)}
	if cfg.Output.DiagnosticReport {
		analyzerOpts = append(analyzerOpts, service.WithDiagnostics(&summaries))
	}

	analyzer := service.NewAnalyzer(eventStore, hostStore, refreshRunner, clusterer, continentTags, cfg.Run.DaysToScan, cfg.Run.PingCount, logger, analyzerOpts...)

	routeRules, err := analyzer.Run(ctx)
	if err != nil {
		return fmt.Errorf("run analysis: %w", err)
	}

	writer := rules.NewWriter(cfg.Output.Dir, logger)
	if err := writer.Write(routeRules); err != nil {
		return fmt.Errorf("publish route rules: %w", err)
	}

	if cfg.Output.DiagnosticReport {
		reportWriter := excelreport.NewWriter(nil)
		reportPath := filepath.Join(cfg.Output.Dir, "diagnostics.xlsx")
		reportRegions := append([]string{model.RegionCentral, model.RegionDomestic}, continentTags...)
		if err := reportWriter.Write(summaries, reportRegions, time.Now(), reportPath); err != nil {
			return fmt.Errorf("write diagnostic report: %w", err)
		}
		logger.Info().Str("path", reportPath).Int("clusters", len(summaries)).Msg("wrote diagnostic report")
	}

	logger.Info().Int("regions", len(routeRules)).Msg("route analysis complete")
	return nil
}

// newHostStore builds the HostStatisticStore collaborator for the
// configured driver.
func newHostStore(ctx context.Context, cfg config.HostStoreConfig, logger zerolog.Logger) (store.HostStatisticStore, error) {
	switch cfg.Driver {
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return store.NewDynamoStore(ctx, cfg.Region, cfg.TableName, logger)
	}
}

// newEventStore builds the events.Store collaborator for the configured
// driver.
func newEventStore(cfg config.EventStoreConfig, logger zerolog.Logger) events.Store {
	if cfg.Driver == "memory" {
		return events.NewMemoryStore()
	}
	return events.NewHTTPStore(cfg.BaseURL, cfg.Timeout, cfg.RetryCount, logger)
}
