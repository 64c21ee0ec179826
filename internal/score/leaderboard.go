package score

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/arenalab/gauntlet/internal/record"
)

// Leaderboard formats ranked rows for a finished race. It has no side
// effects; callers decide whether to print or capture the returned text.
// Rows are ordered by composite score descending, ties keeping their
// original input order.
func Leaderboard(rows []record.AgentResultRow) string {
	ranked := make([]record.AgentResultRow, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CompositeScore > ranked[j].CompositeScore
	})

	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tAGENT\tTYPE\tCOMPOSITE\tSECONDARY\tDURATION\tERROR")
	for i, r := range ranked {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.3f\t%.3f\t%.1fs\t%s\n",
			RankLabel(i+1), r.Agent, r.AgentType, r.CompositeScore, r.SecondaryMetric, r.DurationS, r.Error)
	}
	tw.Flush()
	return b.String()
}

// RankLabel renders a 1-based rank as "1st", "2nd", "3rd", then "{n}th".
func RankLabel(n int) string {
	switch n {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	default:
		return fmt.Sprintf("%dth", n)
	}
}
