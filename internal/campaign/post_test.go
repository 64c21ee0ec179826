package campaign_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/arenalab/gauntlet/internal/campaign"
	"github.com/arenalab/gauntlet/internal/catalog"
	"github.com/arenalab/gauntlet/internal/record"
)

func TestCampaignPostprocessArtifacts(t *testing.T) {
	dir := t.TempDir()

	// Seed one scenario's artifact so the aggregates have rows to fold.
	store := &record.Store{Path: filepath.Join(dir, "iterated-trust.json")}
	err := store.Append(&record.RaceRun{
		Scenario: "iterated-trust",
		Results: []record.AgentResultRow{
			{Agent: "alpha", AgentType: "alpha", CompositeScore: 4},
			{Agent: "beta", AgentType: "beta", CompositeScore: 2, Error: "launch failure"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	runner := campaign.NewRunner(testConfig(), campaign.Options{
		Agents:     []string{"alpha", "beta"},
		ResultsDir: dir,
		Limit:      1,
		DryRun:     true,
		Post:       true,
	})
	if err := runner.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	var coverage struct {
		Covered int      `json:"covered"`
		Total   int      `json:"total"`
		Missing []string `json:"missing"`
	}
	readJSON(t, filepath.Join(dir, "coverage.json"), &coverage)
	if coverage.Total != len(catalog.IDs()) {
		t.Errorf("coverage total: got %d", coverage.Total)
	}
	if coverage.Covered != 1 {
		t.Errorf("coverage covered: got %d, want the dry-run scenario", coverage.Covered)
	}

	var aggs []struct {
		Agent         string  `json:"agent"`
		Races         int     `json:"races"`
		Failures      int     `json:"failures"`
		MeanComposite float64 `json:"mean_composite"`
	}
	readJSON(t, filepath.Join(dir, "agent-aggregates.json"), &aggs)
	if len(aggs) != 2 {
		t.Fatalf("expected 2 agent aggregates, got %d", len(aggs))
	}
	if aggs[0].Agent != "alpha" || aggs[0].MeanComposite != 4 || aggs[0].Failures != 0 {
		t.Errorf("alpha aggregate: %+v", aggs[0])
	}
	if aggs[1].Agent != "beta" || aggs[1].Failures != 1 {
		t.Errorf("beta aggregate: %+v", aggs[1])
	}

	for _, name := range []string{"scenario-aggregates.json", "log-scan.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestCampaignPostprocessRunsAfterFailFast(t *testing.T) {
	dir := t.TempDir()
	runner := campaign.NewRunner(testConfig(), campaign.Options{
		Agents:     []string{"alpha"},
		ResultsDir: dir,
		Post:       true,
		Exe:        "/bin/false",
	})
	if err := runner.Run(context.Background()); err == nil {
		t.Fatal("expected failure")
	}

	// The fail-fast stop still leaves the full artifact set behind.
	for _, name := range []string{"summary.json", "coverage.json", "agent-aggregates.json", "scenario-aggregates.json", "log-scan.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}

	var coverage struct {
		Covered int `json:"covered"`
	}
	readJSON(t, filepath.Join(dir, "coverage.json"), &coverage)
	if coverage.Covered != 0 {
		t.Errorf("failed campaign reported coverage %d", coverage.Covered)
	}
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("parsing %s: %v", path, err)
	}
}
