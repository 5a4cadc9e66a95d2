// Package store persists and queries model.HostStatistic records.
package store

import (
	"context"

	"routeanalyzer/internal/model"
)

// HostStatisticStore is the persistence contract for probed-host records.
// Implementations must make Save atomic per record, and must make Find and
// FindByIP observe every prior Save issued by the same process.
type HostStatisticStore interface {
	// Exists reports exact-host membership: is there a record whose
	// primary key equals host?
	Exists(ctx context.Context, host string) (bool, error)

	// IPExists reports whether any stored record's derived ip_addresses
	// set contains host. Used to short-circuit refresh when a DNS name
	// that resolves to this IP has already been probed under a different
	// name.
	IPExists(ctx context.Context, ip string) (bool, error)

	// Find returns the record keyed by host, or (nil, nil) if absent.
	Find(ctx context.Context, host string) (*model.HostStatistic, error)

	// FindByIP returns every record whose ip_addresses set contains ip.
	FindByIP(ctx context.Context, ip string) ([]*model.HostStatistic, error)

	// Save upserts stat by its Host key, writing the derived IP address
	// set alongside it whenever non-empty and stat is not itself an IP.
	Save(ctx context.Context, stat *model.HostStatistic) error
}
