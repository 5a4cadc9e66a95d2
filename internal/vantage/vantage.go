// Package vantage executes reachability probes from named network vantage
// points and normalizes the results into model.Measurement values.
package vantage

import (
	"context"
	"errors"

	"routeanalyzer/internal/model"
)

// ErrTransport indicates the vantage's remote shell could not be reached
// or the connection was lost mid-command.
var ErrTransport = errors.New("vantage: transport error")

// ErrCommand indicates the remote ping process failed or produced no
// output.
var ErrCommand = errors.New("vantage: command error")

// ErrParse indicates the remote ping output did not match the expected
// summary shape.
var ErrParse = errors.New("vantage: parse error")

// Point probes reachability of a host from one named location. All
// implementations must be safe for concurrent use by multiple goroutines
// probing different hosts.
type Point interface {
	// Ping runs count echo requests against host and returns a normalized
	// measurement. On failure it returns one of ErrTransport, ErrCommand,
	// or ErrParse wrapped with additional detail; callers treat all three
	// uniformly as "no measurement".
	Ping(ctx context.Context, host string, count int) (*model.Measurement, error)

	// Name identifies the vantage for logging ("central", "domestic", or
	// a continent tag).
	Name() string

	// Close releases the vantage's remote shell, if one is held.
	Close() error
}
