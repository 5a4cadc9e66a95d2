// Package service orchestrates host discovery, reachability refresh,
// clustering, and route scoring for the route-rule analyzer.
package service

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"routeanalyzer/internal/model"
	"routeanalyzer/internal/store"
	"routeanalyzer/internal/vantage"
)

// RefreshRunner ensures the host statistic store contains a fresh record
// for every host in an input set, fanning probes out across vantages and
// bounding concurrency across hosts.
type RefreshRunner struct {
	store       store.HostStatisticStore
	central     vantage.Point
	domestic    vantage.Point
	continents  map[string]vantage.Point
	concurrency int
	logger      zerolog.Logger
}

// NewRefreshRunner builds a RefreshRunner. concurrency bounds the number
// of hosts refreshed at once; each host's vantages are still probed
// concurrently with one another.
func NewRefreshRunner(
	hostStore store.HostStatisticStore,
	central, domestic vantage.Point,
	continents map[string]vantage.Point,
	concurrency int,
	logger zerolog.Logger,
) *RefreshRunner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &RefreshRunner{
		store:       hostStore,
		central:     central,
		domestic:    domestic,
		continents:  continents,
		concurrency: concurrency,
		logger:      logger.With().Str("component", "refresh-runner").Logger(),
	}
}

// RefreshAll refreshes every host in hosts, up to r.concurrency at a time.
// Per-vantage ping failures are logged and recorded as an absent
// measurement; they never abort the run.
func (r *RefreshRunner) RefreshAll(ctx context.Context, hosts map[string]struct{}, pingCount int) error {
	r.logger.Info().Int("hosts", len(hosts)).Int("concurrency", r.concurrency).Msg("refreshing host statistics")

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for host := range hosts {
		host := host
		g.Go(func() error {
			return r.refreshOne(ctx, host, pingCount)
		})
	}

	return g.Wait()
}

// refreshOne implements the per-host refresh algorithm from §4.4: skip if
// already known by name or by IP, otherwise probe every vantage
// independently and save whatever was learned, even if every probe
// failed.
func (r *RefreshRunner) refreshOne(ctx context.Context, host string, pingCount int) error {
	exists, err := r.store.Exists(ctx, host)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	ipExists, err := r.store.IPExists(ctx, host)
	if err != nil {
		return err
	}
	if ipExists {
		return nil
	}

	isIPAddress := net.ParseIP(host) != nil
	stat := model.NewHostStatistic(host, isIPAddress, time.Now())

	type probe struct {
		tag    string
		point  vantage.Point
		assign func(*model.Measurement)
	}
	probes := []probe{
		{"central", r.central, func(m *model.Measurement) { stat.Central = m }},
		{"domestic", r.domestic, func(m *model.Measurement) { stat.Domestic = m }},
	}
	for tag, point := range r.continents {
		tag, point := tag, point
		probes = append(probes, probe{tag, point, func(m *model.Measurement) { stat.OtherContinents[tag] = m }})
	}

	results := make([]*model.Measurement, len(probes))
	var wg sync.WaitGroup
	for i, p := range probes {
		i, p := i, p
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := p.point.Ping(ctx, host, pingCount)
			if err != nil {
				r.logger.Debug().Err(err).Str("host", host).Str("vantage", p.tag).Msg("vantage probe failed")
				return
			}
			results[i] = m
		}()
	}
	wg.Wait()

	for i, p := range probes {
		if results[i] != nil {
			p.assign(results[i])
		}
	}

	if err := r.store.Save(ctx, stat); err != nil {
		return err
	}
	r.logger.Debug().Str("host", host).Bool("is_ip_address", isIPAddress).Msg("saved host statistic")
	return nil
}
