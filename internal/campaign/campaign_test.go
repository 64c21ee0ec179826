package campaign_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arenalab/gauntlet/internal/campaign"
	"github.com/arenalab/gauntlet/internal/catalog"
	"github.com/arenalab/gauntlet/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Agents:   []config.Agent{{Type: "alpha", Binary: "alpha"}},
		Results:  config.Results{Dir: "unused"},
		MaxTurns: 40,
	}
}

func loadLedger(t *testing.T, dir string) *campaign.Ledger {
	t.Helper()
	ledger, err := campaign.LoadLedger(filepath.Join(dir, "progress.json"))
	if err != nil {
		t.Fatal(err)
	}
	return ledger
}

func TestCampaignDryRun(t *testing.T) {
	dir := t.TempDir()
	runner := campaign.NewRunner(testConfig(), campaign.Options{
		Agents:     []string{"alpha"},
		Seed:       7,
		ResultsDir: dir,
		Limit:      2,
		DryRun:     true,
		// A dry run must not spawn anything; an unrunnable exe proves it.
		Exe: "/no/such/binary",
	})
	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	ledger := loadLedger(t, dir)
	if len(ledger.Runs) != 2 {
		t.Fatalf("expected 2 ledger rows, got %d", len(ledger.Runs))
	}
	ids := catalog.IDs()
	for i, rec := range ledger.Runs {
		if rec.Scenario != ids[i] {
			t.Errorf("row %d: got %s, want %s (sorted order)", i, rec.Scenario, ids[i])
		}
		if rec.ReturnCode != 0 {
			t.Errorf("dry-run row %s spawned something: rc=%d", rec.Scenario, rec.ReturnCode)
		}
		cmd := strings.Join(rec.Command, " ")
		if !strings.Contains(cmd, "race") || !strings.Contains(cmd, "--scenario "+rec.Scenario) {
			t.Errorf("recorded command incomplete: %s", cmd)
		}
		if !strings.Contains(cmd, "--seed 7") {
			t.Errorf("seed not forwarded: %s", cmd)
		}
	}
	if ledger.Summary.OK != 2 || ledger.Summary.Failed != 0 {
		t.Errorf("summary: %+v", ledger.Summary)
	}
}

func TestCampaignWritesSummaryFile(t *testing.T) {
	dir := t.TempDir()
	runner := campaign.NewRunner(testConfig(), campaign.Options{
		Agents:     []string{"alpha"},
		ResultsDir: dir,
		Limit:      1,
		DryRun:     true,
	})
	if err := runner.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"progress.json", "summary.json", "events.jsonl"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestCampaignResume(t *testing.T) {
	dir := t.TempDir()
	ids := catalog.IDs()

	// A previous campaign already finished the first scenario.
	ledger := loadLedger(t, dir)
	if err := ledger.Append(campaign.RunRecord{Scenario: ids[0], ReturnCode: 0}); err != nil {
		t.Fatal(err)
	}

	runner := campaign.NewRunner(testConfig(), campaign.Options{
		Agents:     []string{"alpha"},
		ResultsDir: dir,
		Limit:      1,
		DryRun:     true,
	})
	if err := runner.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	ledger = loadLedger(t, dir)
	if len(ledger.Runs) != 2 {
		t.Fatalf("expected old row + 1 new attempt, got %d", len(ledger.Runs))
	}
	if ledger.Runs[1].Scenario != ids[1] {
		t.Errorf("resume re-ran %s instead of skipping to %s", ledger.Runs[1].Scenario, ids[1])
	}
}

func TestCampaignFailFast(t *testing.T) {
	dir := t.TempDir()
	runner := campaign.NewRunner(testConfig(), campaign.Options{
		Agents:     []string{"alpha"},
		ResultsDir: dir,
		Exe:        "/bin/false",
	})
	err := runner.Run(context.Background())
	if err == nil {
		t.Fatal("expected failure")
	}
	ledger := loadLedger(t, dir)
	if len(ledger.Runs) != 1 {
		t.Errorf("fail-fast should stop after the first scenario, got %d rows", len(ledger.Runs))
	}
}

func TestCampaignContinueOnFailure(t *testing.T) {
	dir := t.TempDir()
	runner := campaign.NewRunner(testConfig(), campaign.Options{
		Agents:            []string{"alpha"},
		ResultsDir:        dir,
		Limit:             3,
		ContinueOnFailure: true,
		Exe:               "/bin/false",
	})
	err := runner.Run(context.Background())
	if err == nil {
		t.Fatal("failed campaign must still report an error")
	}
	ledger := loadLedger(t, dir)
	if len(ledger.Runs) != 3 {
		t.Errorf("expected all 3 attempts recorded, got %d", len(ledger.Runs))
	}
	if ledger.Summary.Failed != 3 {
		t.Errorf("summary: %+v", ledger.Summary)
	}
}

func TestCampaignSuccess(t *testing.T) {
	dir := t.TempDir()
	runner := campaign.NewRunner(testConfig(), campaign.Options{
		Agents:     []string{"alpha"},
		ResultsDir: dir,
		Limit:      2,
		Exe:        "/bin/true",
	})
	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	ledger := loadLedger(t, dir)
	if len(ledger.Runs) != 2 || ledger.Summary.OK != 2 {
		t.Errorf("ledger: runs=%d summary=%+v", len(ledger.Runs), ledger.Summary)
	}
	for _, rec := range ledger.Runs {
		if rec.ElapsedS < 0 {
			t.Errorf("elapsed not measured: %+v", rec)
		}
	}
}
