package vantage

import (
	"context"
	"fmt"
	"sync"

	"routeanalyzer/internal/model"
)

// InMemoryPoint is a Point test double that returns canned measurements or
// failures keyed by host, recording every call it receives.
type InMemoryPoint struct {
	name string

	mu           sync.Mutex
	measurements map[string]*model.Measurement
	failures     map[string]error
	calls        []string
	closed       bool
}

// NewInMemoryPoint creates an empty test double named name.
func NewInMemoryPoint(name string) *InMemoryPoint {
	return &InMemoryPoint{
		name:         name,
		measurements: make(map[string]*model.Measurement),
		failures:     make(map[string]error),
	}
}

// SetMeasurement arranges for Ping(host, ...) to succeed with m.
func (p *InMemoryPoint) SetMeasurement(host string, m *model.Measurement) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.measurements[host] = m
}

// SetFailure arranges for Ping(host, ...) to fail with err.
func (p *InMemoryPoint) SetFailure(host string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures[host] = err
}

// Calls returns the hosts Ping was invoked with, in call order.
func (p *InMemoryPoint) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.calls))
	copy(out, p.calls)
	return out
}

// Name returns the vantage's configured tag.
func (p *InMemoryPoint) Name() string {
	return p.name
}

// Ping returns the canned measurement or failure configured for host, or
// ErrCommand if neither was configured.
func (p *InMemoryPoint) Ping(ctx context.Context, host string, count int) (*model.Measurement, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, host)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := p.failures[host]; ok {
		return nil, err
	}
	if m, ok := p.measurements[host]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("%w: no canned result for host %q", ErrCommand, host)
}

// Close marks the point closed. Calling Ping afterward is still permitted;
// callers assert Closed() in tests that care.
func (p *InMemoryPoint) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (p *InMemoryPoint) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
