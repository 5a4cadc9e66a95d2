package cluster

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"routeanalyzer/internal/events"
	"routeanalyzer/internal/model"
	"routeanalyzer/internal/store"
)

// correlationDiffSeconds is the time tolerance passed to
// EventStore.find_correlated_hosts, matching the upstream system's
// socket-event repository default.
const correlationDiffSeconds = 30

// HostClusterer walks the IP/apex-domain/temporal-correlation equivalence
// graph from a seed host, consuming matched hosts out of a shared
// candidate set.
type HostClusterer struct {
	store  store.HostStatisticStore
	events events.Store
	logger zerolog.Logger
}

// New builds a HostClusterer over the given store and event log.
func New(hostStore store.HostStatisticStore, eventStore events.Store, logger zerolog.Logger) *HostClusterer {
	return &HostClusterer{
		store:  hostStore,
		events: eventStore,
		logger: logger.With().Str("component", "clusterer").Logger(),
	}
}

// Cluster returns the connected set of hosts reachable from seed by the
// equivalence relation, removing every matched host from candidates.
// candidates must not include seed's own host.
func (c *HostClusterer) Cluster(ctx context.Context, seed *model.HostStatistic, candidates map[string]struct{}) ([]*model.HostStatistic, error) {
	result := []*model.HostStatistic{seed}

	for i := 0; i < len(result); i++ {
		cur := result[i]

		peers, err := c.peerHosts(ctx, cur)
		if err != nil {
			return nil, fmt.Errorf("peers of %q: %w", cur.Host, err)
		}
		for peer := range peers {
			if _, ok := candidates[peer]; !ok {
				continue
			}
			stat, err := c.store.Find(ctx, peer)
			if err != nil {
				return nil, fmt.Errorf("find peer %q: %w", peer, err)
			}
			delete(candidates, peer)
			if stat != nil {
				result = append(result, stat)
			}
		}

		if cur.IsIPAddress {
			siblings, err := c.store.FindByIP(ctx, cur.Host)
			if err != nil {
				return nil, fmt.Errorf("find by ip %q: %w", cur.Host, err)
			}
			for _, s := range siblings {
				if _, ok := candidates[s.Host]; !ok {
					continue
				}
				delete(candidates, s.Host)
				result = append(result, s)
			}
			continue
		}

		for h := range candidates {
			if !sameApex(h, cur.Host) {
				continue
			}
			stat, err := c.store.Find(ctx, h)
			if err != nil {
				return nil, fmt.Errorf("find apex sibling %q: %w", h, err)
			}
			delete(candidates, h)
			if stat != nil {
				result = append(result, stat)
			}
		}
	}

	return result, nil
}

// peerHosts computes cur.ip_addresses() ∪ EventStore.find_correlated_hosts(cur.host).
func (c *HostClusterer) peerHosts(ctx context.Context, cur *model.HostStatistic) (map[string]struct{}, error) {
	correlated, err := c.events.FindCorrelatedHosts(ctx, cur.Host, correlationDiffSeconds)
	if err != nil {
		return nil, err
	}

	peers := cur.IPAddresses()
	for h := range correlated {
		peers[h] = struct{}{}
	}
	return peers, nil
}
