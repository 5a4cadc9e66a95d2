package service

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"routeanalyzer/internal/model"
	"routeanalyzer/internal/store"
	"routeanalyzer/internal/vantage"
)

func TestRefreshRunner_ProbesAllVantagesAndSaves(t *testing.T) {
	hostStore := store.NewMemoryStore()
	central := vantage.NewInMemoryPoint("central")
	domestic := vantage.NewInMemoryPoint("domestic")
	ap := vantage.NewInMemoryPoint("ap")

	central.SetMeasurement("www.example.com", model.NewMeasurement("1.1.1.1", 5, 5))
	domestic.SetMeasurement("www.example.com", model.NewMeasurement("1.1.1.1", 5, 5))
	ap.SetFailure("www.example.com", vantage.ErrTransport)

	r := NewRefreshRunner(hostStore, central, domestic, map[string]vantage.Point{"ap": ap}, 4, zerolog.Nop())

	err := r.RefreshAll(t.Context(), map[string]struct{}{"www.example.com": {}}, 5)
	if err != nil {
		t.Fatalf("RefreshAll() error = %v", err)
	}

	stat, err := hostStore.Find(t.Context(), "www.example.com")
	if err != nil || stat == nil {
		t.Fatalf("Find() = %v, %v, want a saved record", stat, err)
	}
	if stat.Central == nil || stat.Domestic == nil {
		t.Errorf("expected central and domestic measurements to be set, got %+v", stat)
	}
	if _, ok := stat.OtherContinents["ap"]; ok {
		t.Error("ap should be absent after a failed probe, not recorded as a nil placeholder")
	}
}

func TestRefreshRunner_SkipsHostThatAlreadyExists(t *testing.T) {
	hostStore := store.NewMemoryStore()
	hostStore.Save(t.Context(), model.NewHostStatistic("known.example.com", false, time.Now()))

	central := vantage.NewInMemoryPoint("central")
	domestic := vantage.NewInMemoryPoint("domestic")
	r := NewRefreshRunner(hostStore, central, domestic, nil, 4, zerolog.Nop())

	err := r.RefreshAll(t.Context(), map[string]struct{}{"known.example.com": {}}, 5)
	if err != nil {
		t.Fatalf("RefreshAll() error = %v", err)
	}
	if len(central.Calls()) != 0 {
		t.Errorf("central should not have been probed for an already-known host, calls = %v", central.Calls())
	}
}

func TestRefreshRunner_SkipsHostKnownByIP(t *testing.T) {
	hostStore := store.NewMemoryStore()
	existing := model.NewHostStatistic("other.example.com", false, time.Now())
	existing.Central = model.NewMeasurement("5.5.5.5", 5, 5)
	hostStore.Save(t.Context(), existing)

	central := vantage.NewInMemoryPoint("central")
	domestic := vantage.NewInMemoryPoint("domestic")
	r := NewRefreshRunner(hostStore, central, domestic, nil, 4, zerolog.Nop())

	err := r.RefreshAll(t.Context(), map[string]struct{}{"5.5.5.5": {}}, 5)
	if err != nil {
		t.Fatalf("RefreshAll() error = %v", err)
	}
	if len(central.Calls()) != 0 {
		t.Errorf("central should not have been probed for a host already known by IP, calls = %v", central.Calls())
	}
}

func TestRefreshRunner_ZeroSuccessfulVantagesStillSaves(t *testing.T) {
	hostStore := store.NewMemoryStore()
	central := vantage.NewInMemoryPoint("central")
	domestic := vantage.NewInMemoryPoint("domestic")
	central.SetFailure("dead.example.com", errors.New("boom"))
	domestic.SetFailure("dead.example.com", vantage.ErrCommand)

	r := NewRefreshRunner(hostStore, central, domestic, nil, 4, zerolog.Nop())
	if err := r.RefreshAll(t.Context(), map[string]struct{}{"dead.example.com": {}}, 5); err != nil {
		t.Fatalf("RefreshAll() error = %v", err)
	}

	stat, err := hostStore.Find(t.Context(), "dead.example.com")
	if err != nil || stat == nil {
		t.Fatalf("Find() = %v, %v, a record should still be saved", stat, err)
	}
	if stat.Central != nil || stat.Domestic != nil {
		t.Errorf("expected no measurements, got %+v", stat)
	}
}
