package catalog_test

import (
	"sort"
	"testing"

	"github.com/arenalab/gauntlet/internal/catalog"
)

func TestRegistrySize(t *testing.T) {
	if got := len(catalog.All()); got != 50 {
		t.Errorf("expected 50 scenarios, got %d", got)
	}
}

func TestIDsSortedAndUnique(t *testing.T) {
	ids := catalog.IDs()
	if !sort.StringsAreSorted(ids) {
		t.Error("IDs not sorted")
	}
	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestByID(t *testing.T) {
	s, ok := catalog.ByID("iterated-dilemma")
	if !ok {
		t.Fatal("iterated-dilemma not found")
	}
	if s.Family != catalog.FamilyIteratedChoice {
		t.Errorf("family: got %q", s.Family)
	}
	if s.DefaultDuration != 200 || s.DurationUnit != "rounds" {
		t.Errorf("duration: got %d %s", s.DefaultDuration, s.DurationUnit)
	}
	if _, ok := catalog.ByID("no-such-scenario"); ok {
		t.Error("expected lookup miss")
	}
}

func TestServerBackedFamily(t *testing.T) {
	for _, s := range catalog.All() {
		want := s.Family == catalog.FamilyExchange
		if s.ServerBacked() != want {
			t.Errorf("%s: ServerBacked = %v, want %v", s.ID, s.ServerBacked(), want)
		}
	}
	s, _ := catalog.ByID("exchange-spot")
	if !s.ServerBacked() {
		t.Error("exchange-spot should be server-backed")
	}
}

func TestEveryScenarioComplete(t *testing.T) {
	for _, s := range catalog.All() {
		if s.ID == "" || s.Name == "" || s.Engine == "" || s.ScoreArg == "" {
			t.Errorf("incomplete scenario %+v", s)
		}
		if s.DefaultDuration <= 0 || s.DurationUnit == "" {
			t.Errorf("%s: bad duration defaults", s.ID)
		}
	}
}
