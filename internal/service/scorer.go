package service

import (
	"sort"

	"routeanalyzer/internal/model"
)

// poisoned marks a region as disqualified: one unreachable measurement in
// the cluster rules it out for every member.
const poisoned = -1.0

// RouteScorer picks the best egress region for a cluster of hosts by
// summing each region's per-host success ratio, disqualifying any region
// that has even one unreachable measurement within the cluster.
type RouteScorer struct {
	// continentOrder lists the configured continent tags, which always
	// participate in scoring. Tags are iterated in sorted order so tie
	// breaks among continents are deterministic, not subject to Go's
	// randomized map iteration.
	continentOrder []string
}

// NewRouteScorer builds a RouteScorer over the configured continent tags;
// ties among continents go to the tag that sorts first.
func NewRouteScorer(continentOrder []string) *RouteScorer {
	return &RouteScorer{continentOrder: continentOrder}
}

// Score returns the winning region for cluster, per §4.6: central and
// domestic always participate; every other region key observed across
// the cluster's OtherContinents also participates. Central wins ties
// because the comparison against it is strict greater-than.
func (s *RouteScorer) Score(cluster []*model.HostStatistic) string {
	winner, _ := s.ScoreDetailed(cluster)
	return winner
}

// ScoreDetailed behaves like Score but also returns the full per-region
// score map, including poisoned regions (recorded as -1), for diagnostic
// reporting.
func (s *RouteScorer) ScoreDetailed(cluster []*model.HostStatistic) (string, map[string]float64) {
	scores := map[string]float64{
		model.RegionCentral:  0,
		model.RegionDomestic: 0,
	}
	poisonedRegions := map[string]bool{}
	continents := append([]string(nil), s.continentOrder...)
	seen := map[string]bool{}
	for _, tag := range continents {
		seen[tag] = true
	}

	for _, stat := range cluster {
		for tag := range stat.OtherContinents {
			if !seen[tag] {
				seen[tag] = true
				continents = append(continents, tag)
			}
		}
	}
	sort.Strings(continents)
	for _, tag := range continents {
		scores[tag] = 0
	}

	for _, stat := range cluster {
		accumulate(scores, poisonedRegions, model.RegionCentral, stat.Central)
		accumulate(scores, poisonedRegions, model.RegionDomestic, stat.Domestic)
		for _, tag := range continents {
			accumulate(scores, poisonedRegions, tag, stat.OtherContinents[tag])
		}
	}

	winner := model.RegionCentral
	max := scores[model.RegionCentral]
	if scores[model.RegionDomestic] > max {
		winner = model.RegionDomestic
		max = scores[model.RegionDomestic]
	}
	for _, tag := range continents {
		if scores[tag] > max {
			winner = tag
			max = scores[tag]
		}
	}
	return winner, scores
}

// accumulate applies one statistic's contribution to region's score: a
// missing or fully-unreachable measurement poisons the region for every
// later contribution; a poisoned region ignores further input.
func accumulate(scores map[string]float64, poisonedRegions map[string]bool, region string, m *model.Measurement) {
	if poisonedRegions[region] {
		return
	}
	if m.Unreachable() {
		poisonedRegions[region] = true
		scores[region] = poisoned
		return
	}
	scores[region] += m.SuccessRatio()
}
