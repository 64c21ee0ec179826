package campaign

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arenalab/gauntlet/internal/catalog"
	"github.com/arenalab/gauntlet/internal/record"
)

// postprocess writes the optional end-of-campaign reports. Every report
// goes to its own file and every failure is downgraded to a warning: the
// already-written progress and summary artifacts are never touched here.
func (r *Runner) postprocess(ledger *Ledger) {
	if err := r.writeCoverage(ledger); err != nil {
		log.Printf("warning: coverage report: %v", err)
	}
	if err := r.writeAgentAggregates(); err != nil {
		log.Printf("warning: agent aggregates: %v", err)
	}
	if err := r.writeScenarioAggregates(); err != nil {
		log.Printf("warning: scenario aggregates: %v", err)
	}
	if err := r.writeLogScan(); err != nil {
		log.Printf("warning: log scan: %v", err)
	}
}

type coverageReport struct {
	Covered  int      `json:"covered"`
	Total    int      `json:"total"`
	Fraction float64  `json:"fraction"`
	Missing  []string `json:"missing"`
}

// writeCoverage reports the fraction of the full registry with at least
// one successful artifact.
func (r *Runner) writeCoverage(ledger *Ledger) error {
	ids := catalog.IDs()
	report := coverageReport{Total: len(ids), Missing: []string{}}
	for _, id := range ids {
		if ledger.HasSuccess(id) {
			report.Covered++
		} else {
			report.Missing = append(report.Missing, id)
		}
	}
	if report.Total > 0 {
		report.Fraction = float64(report.Covered) / float64(report.Total)
	}
	return r.writeReport("coverage.json", report)
}

type agentAggregate struct {
	Agent         string  `json:"agent"`
	Races         int     `json:"races"`
	Failures      int     `json:"failures"`
	MeanComposite float64 `json:"mean_composite"`
	MeanSecondary float64 `json:"mean_secondary"`
}

func (r *Runner) writeAgentAggregates() error {
	runs, err := r.readAllRuns()
	if err != nil {
		return err
	}
	type accum struct {
		races, failures      int
		composite, secondary float64
	}
	byAgent := map[string]*accum{}
	for _, run := range runs {
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
		}
	}
	var aggs []agentAggregate
	for name, a := range byAgent {
		aggs = append(aggs, agentAggregate{
			Agent:         name,
			Races:         a.races,
			Failures:      a.failures,
			MeanComposite: a.composite / float64(a.races),
			MeanSecondary: a.secondary / float64(a.races),
		})
	}
	sort.Slice(aggs, func(i, j int) bool { return aggs[i].Agent < aggs[j].Agent })
	return r.writeReport("agent-aggregates.json", aggs)
}

type scenarioAggregate struct {
	Scenario      string  `json:"scenario"`
	Races         int     `json:"races"`
	MeanComposite float64 `json:"mean_composite"`
}

func (r *Runner) writeScenarioAggregates() error {
	runs, err := r.readAllRuns()
	if err != nil {
		return err
	}
	type accum struct {
		rows      int
		composite float64
		races     int
	}
	byScenario := map[string]*accum{}
	for _, run := range runs {
		a := byScenario[run.Scenario]
		if a == nil {
			a = &accum{}
			byScenario[run.Scenario] = a
		}
		a.races++
		for _, row := range run.Results {
			a.rows++
			a.composite += row.CompositeScore
		}
	}
	var aggs []scenarioAggregate
	for id, a := range byScenario {
		agg := scenarioAggregate{Scenario: id, Races: a.races}
		if a.rows > 0 {
			agg.MeanComposite = a.composite / float64(a.rows)
		}
		aggs = append(aggs, agg)
	}
	sort.Slice(aggs, func(i, j int) bool { return aggs[i].Scenario < aggs[j].Scenario })
	return r.writeReport("scenario-aggregates.json", aggs)
}

func (r *Runner) readAllRuns() ([]record.RaceRun, error) {
	entries, err := os.ReadDir(r.opts.ResultsDir)
	if err != nil {
		return nil, err
	}
	var all []record.RaceRun
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		if _, ok := catalog.ByID(strings.TrimSuffix(e.Name(), ".json")); !ok {
			continue
		}
		store := &record.Store{Path: filepath.Join(r.opts.ResultsDir, e.Name())}
		runs, err := store.Read()
		if err != nil {
			log.Printf("warning: %v", err)
			continue
		}
		all = append(all, runs...)
	}
	return all, nil
}

type logScanEntry struct {
	File     string `json:"file"`
	Warnings int    `json:"warnings"`
	Errors   int    `json:"errors"`
}

// writeLogScan counts warning/error markers across the captured race logs.
func (r *Runner) writeLogScan() error {
	logsDir := filepath.Join(r.opts.ResultsDir, "logs")
	entries, err := os.ReadDir(logsDir)
	if os.IsNotExist(err) {
		return r.writeReport("log-scan.json", []logScanEntry{})
	}
	if err != nil {
		return err
	}
	scan := []logScanEntry{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".log") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(logsDir, e.Name()))
		if err != nil {
			continue
		}
		entry := logScanEntry{File: e.Name()}
		for _, line := range strings.Split(string(data), "\n") {
			lower := strings.ToLower(line)
			switch {
			case strings.Contains(lower, "error"):
				entry.Errors++
			case strings.Contains(lower, "warning"), strings.Contains(lower, "warn"):
				entry.Warnings++
			}
		}
		if entry.Warnings > 0 || entry.Errors > 0 {
			scan = append(scan, entry)
		}
	}
	return r.writeReport("log-scan.json", scan)
}

func (r *Runner) writeReport(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(r.opts.ResultsDir, name), data, 0o644)
}
