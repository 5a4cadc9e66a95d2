// Package events queries the access-log analytics surface that backs host
// discovery and temporal correlation.
package events

import (
	"context"
	"sort"
	"time"

	"routeanalyzer/internal/model"
)

// correlationThreshold is the minimum fraction of a host's access groups
// that must co-occur with a candidate host for the candidate to count as
// correlated.
const correlationThreshold = 0.95

// Store is the read-only contract over the access event log.
type Store interface {
	// AggregateOnHosts returns the distinct hosts accessed within the
	// half-open window.
	AggregateOnHosts(ctx context.Context, window model.TimeWindow) (map[string]struct{}, error)

	// FindCorrelatedHosts returns every host whose accesses co-occur with
	// host's accesses, within diffSeconds, for more than 95% of host's
	// access groups. Degrades to empty when host has fewer than two
	// recorded accesses.
	FindCorrelatedHosts(ctx context.Context, host string, diffSeconds int) (map[string]struct{}, error)
}

// correlatedHosts implements the correlation predicate shared by every
// Store implementation: group a host's own accesses sequentially, count
// how many groups have at least one co-occurring access from each
// candidate, and keep candidates clearing correlationThreshold.
func correlatedHosts(hostEvents, candidateEvents []model.SocketEvent, host string, diffSeconds int) map[string]struct{} {
	result := make(map[string]struct{})
	if len(hostEvents) < 2 {
		return result
	}

	sorted := make([]model.SocketEvent, len(hostEvents))
	copy(sorted, hostEvents)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].AccessTimestamp.Before(sorted[j].AccessTimestamp)
	})

	tolerance := time.Duration(diffSeconds) * time.Second
	counts := make(map[string]int)

	for _, group := range sorted {
		seenInGroup := make(map[string]struct{})
		for _, candidate := range candidateEvents {
			if candidate.Host == host {
				continue
			}
			delta := candidate.AccessTimestamp.Sub(group.AccessTimestamp)
			if delta < -tolerance || delta > tolerance {
				continue
			}
			seenInGroup[candidate.Host] = struct{}{}
		}
		for h := range seenInGroup {
			counts[h]++
		}
	}

	total := float64(len(sorted))
	for h, c := range counts {
		if float64(c)/total > correlationThreshold {
			result[h] = struct{}{}
		}
	}
	return result
}
