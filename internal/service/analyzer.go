package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"routeanalyzer/internal/cluster"
	"routeanalyzer/internal/events"
	"routeanalyzer/internal/model"
	"routeanalyzer/internal/store"
)

// Analyzer runs one end-to-end route-rule analysis: discover recently
// accessed hosts, refresh their reachability, cluster them into
// semantically-equivalent groups, and score each cluster's best egress
// region.
type Analyzer struct {
	events        events.Store
	hostStore     store.HostStatisticStore
	refreshRunner *RefreshRunner
	clusterer     *cluster.HostClusterer
	scorer        *RouteScorer
	continents    []string
	daysToScan    int
	pingCount     int
	version       string
	diagnostics   *[]ClusterSummary
	logger        zerolog.Logger
}

// AnalyzerOption is a functional option for configuring an Analyzer.
type AnalyzerOption func(*Analyzer)

// NewAnalyzer builds an Analyzer from its collaborators. continents is
// the full set of configured continent tags, used to pre-seed the
// returned RouteRules and as the RouteScorer's continent regions.
func NewAnalyzer(
	eventStore events.Store,
	hostStore store.HostStatisticStore,
	refreshRunner *RefreshRunner,
	clusterer *cluster.HostClusterer,
	continents []string,
	daysToScan, pingCount int,
	logger zerolog.Logger,
	opts ...AnalyzerOption,
) *Analyzer {
	a := &Analyzer{
		events:        eventStore,
		hostStore:     hostStore,
		refreshRunner: refreshRunner,
		clusterer:     clusterer,
		scorer:        NewRouteScorer(continents),
		continents:    continents,
		daysToScan:    daysToScan,
		pingCount:     pingCount,
		version:       "dev",
		logger:        logger.With().Str("component", "analyzer").Logger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// WithVersion sets the tool version recorded in analyzer logs.
func WithVersion(version string) AnalyzerOption {
	return func(a *Analyzer) {
		a.version = version
	}
}

// WithDiagnostics arranges for Run to append one ClusterSummary per
// scored cluster to sink, for callers that want to render the optional
// diagnostic report alongside the published RouteRules.
func WithDiagnostics(sink *[]ClusterSummary) AnalyzerOption {
	return func(a *Analyzer) {
		a.diagnostics = sink
	}
}

// Run executes the six-step workflow from §4.7 and returns the resulting
// RouteRules.
func (a *Analyzer) Run(ctx context.Context) (model.RouteRules, error) {
	startTime := time.Now()
	a.logger.Info().Str("version", a.version).Int("days_to_scan", a.daysToScan).Msg("starting route analysis")

	// Step 1: time window.
	window := model.PastDays(startTime, a.daysToScan)

	// Step 2: discover recently accessed hosts.
	a.logger.Debug().Msg("step 2: discovering hosts from the event log")
	hostSet, err := a.events.AggregateOnHosts(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("discover hosts: %w", err)
	}
	if len(hostSet) == 0 {
		a.logger.Warn().Msg("no hosts accessed in the scan window, completing with empty rules")
		return model.NewRouteRules(a.continents), nil
	}

	// Step 3: refresh reachability for every discovered host.
	a.logger.Debug().Int("hosts", len(hostSet)).Msg("step 3: refreshing host statistics")
	if err := a.refreshRunner.RefreshAll(ctx, hostSet, a.pingCount); err != nil {
		return nil, fmt.Errorf("refresh host statistics: %w", err)
	}

	// Step 4: seed the rule set.
	rules := model.NewRouteRules(a.continents)

	// Step 5: cluster and score until every host has been assigned.
	a.logger.Debug().Msg("step 5: clustering and scoring")
	order := make([]string, 0, len(hostSet))
	for h := range hostSet {
		order = append(order, h)
	}
	sort.Strings(order)

	remaining := hostSet
	for _, h := range order {
		if _, ok := remaining[h]; !ok {
			continue
		}
		delete(remaining, h)

		seed, err := a.hostStore.Find(ctx, h)
		if err != nil {
			return nil, fmt.Errorf("find seed %q: %w", h, err)
		}
		if seed == nil {
			continue
		}

		clusterResult, err := a.clusterer.Cluster(ctx, seed, remaining)
		if err != nil {
			return nil, fmt.Errorf("cluster seed %q: %w", h, err)
		}

		winner, scores := a.scorer.ScoreDetailed(clusterResult)
		members := make([]string, len(clusterResult))
		for i, stat := range clusterResult {
			members[i] = stat.Host
		}
		rules.Append(winner, members...)

		if a.diagnostics != nil {
			*a.diagnostics = append(*a.diagnostics, ClusterSummary{
				Seed:    h,
				Members: members,
				Winner:  winner,
				Scores:  scores,
			})
		}

		a.logger.Debug().Str("seed", h).Int("cluster_size", len(clusterResult)).Str("winner", winner).Msg("scored cluster")
	}

	a.logger.Info().Dur("duration", time.Since(startTime)).Int("regions", len(rules)).Msg("route analysis completed")
	return rules, nil
}
