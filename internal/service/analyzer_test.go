package service

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"routeanalyzer/internal/cluster"
	"routeanalyzer/internal/events"
	"routeanalyzer/internal/model"
	"routeanalyzer/internal/store"
	"routeanalyzer/internal/vantage"
)

func TestAnalyzer_Run_EndToEnd(t *testing.T) {
	now := time.Now()

	eventStore := events.NewMemoryStore()
	eventStore.AddEvents(
		*model.NewSocketEvent("www.example.com", 443, now.Add(-time.Hour)),
		*model.NewSocketEvent("api.other.com", 443, now.Add(-2*time.Hour)),
	)

	hostStore := store.NewMemoryStore()

	central := vantage.NewInMemoryPoint("central")
	domestic := vantage.NewInMemoryPoint("domestic")
	central.SetMeasurement("www.example.com", model.NewMeasurement("1.1.1.1", 5, 5))
	domestic.SetMeasurement("www.example.com", model.NewMeasurement("1.1.1.1", 5, 1))
	central.SetMeasurement("api.other.com", model.NewMeasurement("2.2.2.2", 5, 1))
	domestic.SetMeasurement("api.other.com", model.NewMeasurement("2.2.2.2", 5, 5))

	refreshRunner := NewRefreshRunner(hostStore, central, domestic, nil, 4, zerolog.Nop())
	clusterer := cluster.New(hostStore, eventStore, zerolog.Nop())

	a := NewAnalyzer(eventStore, hostStore, refreshRunner, clusterer, nil, 7, 5, zerolog.Nop(), WithVersion("test"))

	rules, err := a.Run(t.Context())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := rules[model.RegionDomestic]; !contains(got, "api.other.com") {
		t.Errorf("domestic rules = %v, want to contain api.other.com", got)
	}
	if got := rules[model.RegionDomestic]; contains(got, "www.example.com") {
		t.Errorf("domestic rules = %v, www.example.com should have stayed on central (discarded)", got)
	}
}

func TestAnalyzer_Run_NoHostsDiscoveredReturnsEmptyRules(t *testing.T) {
	eventStore := events.NewMemoryStore()
	hostStore := store.NewMemoryStore()
	central := vantage.NewInMemoryPoint("central")
	domestic := vantage.NewInMemoryPoint("domestic")

	refreshRunner := NewRefreshRunner(hostStore, central, domestic, nil, 4, zerolog.Nop())
	clusterer := cluster.New(hostStore, eventStore, zerolog.Nop())
	a := NewAnalyzer(eventStore, hostStore, refreshRunner, clusterer, []string{"ap"}, 7, 5, zerolog.Nop())

	rules, err := a.Run(t.Context())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(rules[model.RegionDomestic]) != 0 || len(rules["ap"]) != 0 {
		t.Errorf("expected empty rule lists, got %v", rules)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
