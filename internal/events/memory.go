package events

import (
	"context"
	"sync"

	"routeanalyzer/internal/model"
)

// MemoryStore is a Store test double holding raw SocketEvent rows in
// memory and computing the same correlation predicate as HTTPStore.
type MemoryStore struct {
	mu     sync.RWMutex
	events []model.SocketEvent
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// AddEvents appends rows to the in-memory log.
func (s *MemoryStore) AddEvents(rows ...model.SocketEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, rows...)
}

// AggregateOnHosts returns the distinct hosts accessed within the window.
func (s *MemoryStore) AggregateOnHosts(ctx context.Context, window model.TimeWindow) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hosts := make(map[string]struct{})
	for _, e := range s.events {
		if window.Contains(e.AccessTimestamp) {
			hosts[e.Host] = struct{}{}
		}
	}
	return hosts, nil
}

// FindCorrelatedHosts applies the shared correlation predicate over every
// stored event.
func (s *MemoryStore) FindCorrelatedHosts(ctx context.Context, host string, diffSeconds int) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hostEvents []model.SocketEvent
	for _, e := range s.events {
		if e.Host == host {
			hostEvents = append(hostEvents, e)
		}
	}
	return correlatedHosts(hostEvents, s.events, host, diffSeconds), nil
}
