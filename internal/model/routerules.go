package model

import "sort"

// RegionCentral is the default egress region. Hosts that score to it are
// never published as a key in RouteRules — the default route applies.
const RegionCentral = "central"

// RegionDomestic is the always-present non-default region.
const RegionDomestic = "domestic"

// RouteRules maps a region tag (domestic plus each configured continent)
// to an ordered list of hosts that should egress through it. RegionCentral
// never appears as a key.
type RouteRules map[string][]string

// NewRouteRules creates an empty rule set pre-seeded with domestic and the
// given continent tags, matching Analyzer's step 4 ("domestic": [], c: []
// for c in continents).
func NewRouteRules(continents []string) RouteRules {
	rules := make(RouteRules, len(continents)+1)
	rules[RegionDomestic] = []string{}
	for _, c := range continents {
		rules[c] = []string{}
	}
	return rules
}

// Append adds hosts to region's list if region is a known key; it is a
// no-op for RegionCentral or any other unrecognized tag, matching the
// Analyzer's "otherwise discard" rule.
func (r RouteRules) Append(region string, hosts ...string) {
	if region == RegionCentral {
		return
	}
	if _, ok := r[region]; !ok {
		return
	}
	r[region] = append(r[region], hosts...)
}

// SortedRegions returns the rule set's region tags in sorted order, for
// deterministic iteration when publishing.
func (r RouteRules) SortedRegions() []string {
	regions := make([]string, 0, len(r))
	for region := range r {
		regions = append(regions, region)
	}
	sort.Strings(regions)
	return regions
}
