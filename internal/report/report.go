// Package report aggregates stored race records into per-agent summaries
// across many races, complementing the single-race leaderboard.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/arenalab/gauntlet/internal/record"
)

type AgentSummary struct {
	Agent         string  `json:"agent"`
	Races         int     `json:"races"`
	Wins          int     `json:"wins"`
	FailureRate   float64 `json:"failure_rate"`
	MeanComposite float64 `json:"mean_composite"`
	MeanSecondary float64 `json:"mean_secondary"`
}

// Generate reads a record store and writes the aggregate report.
func Generate(store *record.Store, format string, w io.Writer) error {
	runs, err := store.Read()
	if err != nil {
		return err
	}
	summaries := aggregate(runs)
	switch format {
	case "markdown":
		return writeMarkdown(summaries, w)
	case "json":
		return writeJSON(summaries, w)
	default:
		return writeTable(summaries, w)
	}
}

func aggregate(runs []record.RaceRun) []AgentSummary {
	type accum struct {
		races, wins, failures int
		composite, secondary  float64
	}
	byAgent := map[string]*accum{}

	for _, run := range runs {
		winner := ""
		best := 0.0
		for _, row := range run.Results {
			a := byAgent[row.AgentType]
			if a == nil {
				a = &accum{}
				byAgent[row.AgentType] = a
			}
			a.races++
			a.composite += row.CompositeScore
			a.secondary += row.SecondaryMetric
			if row.Error != "" {
				a.failures++
			}
			if winner == "" || row.CompositeScore > best {
				winner = row.AgentType
				best = row.CompositeScore
			}
		}
		if winner != "" {
			byAgent[winner].wins++
		}
	}

	var summaries []AgentSummary
	for name, a := range byAgent {
		summaries = append(summaries, AgentSummary{
			Agent:         name,
			Races:         a.races,
			Wins:          a.wins,
			FailureRate:   float64(a.failures) / float64(a.races),
			MeanComposite: a.composite / float64(a.races),
			MeanSecondary: a.secondary / float64(a.races),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Agent < summaries[j].Agent
	})
	return summaries
}

func writeTable(summaries []AgentSummary, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "AGENT\tRACES\tWINS\tFAIL RATE\tMEAN COMPOSITE\tMEAN SECONDARY")
	fmt.Fprintln(tw, strings.Repeat("-", 72))
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.0f%%\t%.3f\t%.3f\n",
			s.Agent, s.Races, s.Wins, s.FailureRate*100, s.MeanComposite, s.MeanSecondary)
	}
	return tw.Flush()
}

func writeMarkdown(summaries []AgentSummary, w io.Writer) error {
	fmt.Fprintln(w, "| Agent | Races | Wins | Fail Rate | Mean Composite | Mean Secondary |")
	fmt.Fprintln(w, "|---|---|---|---|---|---|")
	for _, s := range summaries {
		fmt.Fprintf(w, "| %s | %d | %d | %.0f%% | %.3f | %.3f |\n",
			s.Agent, s.Races, s.Wins, s.FailureRate*100, s.MeanComposite, s.MeanSecondary)
	}
	return nil
}

func writeJSON(summaries []AgentSummary, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summaries)
}
