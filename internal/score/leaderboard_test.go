package score_test

import (
	"strings"
	"testing"

	"github.com/arenalab/gauntlet/internal/record"
	"github.com/arenalab/gauntlet/internal/score"
)

func TestLeaderboardRanksDescending(t *testing.T) {
	rows := []record.AgentResultRow{
		{Agent: "low", AgentType: "codex", CompositeScore: 1},
		{Agent: "high", AgentType: "claude", CompositeScore: 9},
		{Agent: "mid", AgentType: "gemini", CompositeScore: 5},
	}
	out := score.Leaderboard(rows)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines:\n%s", len(lines), out)
	}
	for i, want := range []string{"1st", "2nd", "3rd"} {
		if !strings.Contains(lines[i+1], want) {
			t.Errorf("line %d missing rank %q: %s", i+1, want, lines[i+1])
		}
	}
	if !strings.Contains(lines[1], "high") || !strings.Contains(lines[3], "low") {
		t.Errorf("wrong order:\n%s", out)
	}
}

func TestLeaderboardStableTies(t *testing.T) {
	rows := []record.AgentResultRow{
		{Agent: "first-in", CompositeScore: 3},
		{Agent: "second-in", CompositeScore: 3},
		{Agent: "third-in", CompositeScore: 3},
	}
	out := score.Leaderboard(rows)
	a := strings.Index(out, "first-in")
	b := strings.Index(out, "second-in")
	c := strings.Index(out, "third-in")
	if !(a < b && b < c) {
		t.Errorf("ties must preserve input order:\n%s", out)
	}
}

func TestLeaderboardOneRowPerAgent(t *testing.T) {
	// Even a fully failed race shows every launched agent.
	rows := []record.AgentResultRow{
		{Agent: "a-1", Error: "launch failure: no binary"},
		{Agent: "a-2", Error: "score collection failed: timeout"},
	}
	out := score.Leaderboard(rows)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got:\n%s", out)
	}
	if !strings.Contains(out, "launch failure") {
		t.Error("error text missing from leaderboard")
	}
}

func TestLeaderboardDoesNotMutateInput(t *testing.T) {
	rows := []record.AgentResultRow{
		{Agent: "b", CompositeScore: 1},
		{Agent: "a", CompositeScore: 2},
	}
	score.Leaderboard(rows)
	if rows[0].Agent != "b" {
		t.Error("input slice reordered")
	}
}

func TestRankLabel(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "1st"}, {2, "2nd"}, {3, "3rd"}, {4, "4th"}, {11, "11th"}, {21, "21th"},
	}
	for _, tt := range tests {
		if got := score.RankLabel(tt.n); got != tt.want {
			t.Errorf("RankLabel(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
