package model

import "time"

// HostStatistic is one probed-host record: reachability measurements from
// the central vantage, the domestic vantage, and zero or more continent
// vantages. A vantage key never appears twice within one record.
type HostStatistic struct {
	Host            string                  `json:"host"`
	IsIPAddress     bool                    `json:"is_ip_address"`
	LastUpdated     time.Time               `json:"last_updated"`
	Central         *Measurement            `json:"central,omitempty"`
	Domestic        *Measurement            `json:"domestic,omitempty"`
	OtherContinents map[string]*Measurement `json:"other_continents,omitempty"`
}

// NewHostStatistic creates an empty record for a freshly-observed host.
// isIPAddress must be decided by the caller from parsing host as a literal.
func NewHostStatistic(host string, isIPAddress bool, lastUpdated time.Time) *HostStatistic {
	return &HostStatistic{
		Host:            host,
		IsIPAddress:     isIPAddress,
		LastUpdated:     lastUpdated,
		OtherContinents: make(map[string]*Measurement),
	}
}

// IPAddresses returns the set of all non-null destination IPs observed
// across Central, Domestic, and OtherContinents. When IsIPAddress, it
// degenerates to {Host}. Calling it twice yields equal sets (idempotent).
func (s *HostStatistic) IPAddresses() map[string]struct{} {
	if s.IsIPAddress {
		return map[string]struct{}{s.Host: {}}
	}

	result := make(map[string]struct{})
	if s.Central != nil && s.Central.DestinationIP != "" {
		result[s.Central.DestinationIP] = struct{}{}
	}
	if s.Domestic != nil && s.Domestic.DestinationIP != "" {
		result[s.Domestic.DestinationIP] = struct{}{}
	}
	for _, m := range s.OtherContinents {
		if m != nil && m.DestinationIP != "" {
			result[m.DestinationIP] = struct{}{}
		}
	}
	return result
}

// ContainsIP reports whether ip is among IPAddresses(), computed from the
// record's measurements. Used by MemoryStore to answer ip_exists/find_by_ip.
func (s *HostStatistic) ContainsIP(ip string) bool {
	_, ok := s.IPAddresses()[ip]
	return ok
}

// Measurements returns the non-nil region -> measurement pairs in this
// record, keyed "central", "domestic", or a continent tag.
func (s *HostStatistic) Measurements() map[string]*Measurement {
	result := make(map[string]*Measurement, 2+len(s.OtherContinents))
	if s.Central != nil {
		result["central"] = s.Central
	}
	if s.Domestic != nil {
		result["domestic"] = s.Domestic
	}
	for tag, m := range s.OtherContinents {
		result[tag] = m
	}
	return result
}
