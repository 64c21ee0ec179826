package report_test

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arenalab/gauntlet/internal/record"
	"github.com/arenalab/gauntlet/internal/report"
)

func seededStore(t *testing.T) *record.Store {
	t.Helper()
	store := &record.Store{Path: filepath.Join(t.TempDir(), "races.json")}
	runs := []*record.RaceRun{
		{
			Scenario: "iterated-trust",
			Results: []record.AgentResultRow{
				{Agent: "claude", AgentType: "claude", CompositeScore: 5, SecondaryMetric: 1},
				{Agent: "codex", AgentType: "codex", CompositeScore: 3, SecondaryMetric: 2},
			},
		},
		{
			Scenario: "ethics-triage",
			Results: []record.AgentResultRow{
				{Agent: "claude", AgentType: "claude", CompositeScore: 1},
				{Agent: "codex", AgentType: "codex", CompositeScore: 7, Error: "score collection failed: timeout"},
			},
		},
	}
	for _, run := range runs {
		if err := store.Append(run); err != nil {
			t.Fatal(err)
		}
	}
	return store
}

func TestGenerateJSON(t *testing.T) {
	var out bytes.Buffer
	if err := report.Generate(seededStore(t), "json", &out); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	var summaries []report.AgentSummary
	if err := json.Unmarshal(out.Bytes(), &summaries); err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 agents, got %d", len(summaries))
	}
	claude, codex := summaries[0], summaries[1]
	if claude.Agent != "claude" || codex.Agent != "codex" {
		t.Fatalf("sort order: %+v", summaries)
	}
	if claude.Races != 2 || claude.Wins != 1 || claude.MeanComposite != 3 {
		t.Errorf("claude: %+v", claude)
	}
	if codex.Wins != 1 || codex.FailureRate != 0.5 {
		t.Errorf("codex: %+v", codex)
	}
	if claude.FailureRate != 0 {
		t.Errorf("clean agent failure rate: %v", claude.FailureRate)
	}
}

func TestGenerateTable(t *testing.T) {
	var out bytes.Buffer
	if err := report.Generate(seededStore(t), "table", &out); err != nil {
		t.Fatal(err)
	}
	text := out.String()
	for _, want := range []string{"AGENT", "RACES", "claude", "codex", "50%"} {
		if !strings.Contains(text, want) {
			t.Errorf("table missing %q:\n%s", want, text)
		}
	}
}

func TestGenerateMarkdown(t *testing.T) {
	var out bytes.Buffer
	if err := report.Generate(seededStore(t), "markdown", &out); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + rule + 2 rows:\n%s", out.String())
	}
	if !strings.HasPrefix(lines[2], "| claude |") {
		t.Errorf("row format: %s", lines[2])
	}
}

func TestGenerateEmptyStore(t *testing.T) {
	store := &record.Store{Path: filepath.Join(t.TempDir(), "races.json")}
	var out bytes.Buffer
	if err := report.Generate(store, "table", &out); err != nil {
		t.Fatalf("empty store must render an empty report: %v", err)
	}
}
