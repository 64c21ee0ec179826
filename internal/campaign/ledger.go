package campaign

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// LedgerSchemaVersion guards ledger compatibility across harness versions.
const LedgerSchemaVersion = 1

// RunRecord is one race attempt as seen by a driver process. The command
// is the exact argv used, so a failed scenario can be re-run by hand.
type RunRecord struct {
	Scenario    string    `json:"scenario"`
	ReturnCode  int       `json:"return_code"`
	ElapsedS    float64   `json:"elapsed_s"`
	ResultsFile string    `json:"results_file"`
	Timestamp   time.Time `json:"timestamp"`
	Command     []string  `json:"command"`
}

// Summary is derived from the run rows on every save, never mutated
// incrementally.
type Summary struct {
	Total       int      `json:"total"`
	OK          int      `json:"ok"`
	Failed      int      `json:"failed"`
	FailedIDs   []string `json:"failed_ids"`
	AvgElapsedS float64  `json:"avg_elapsed_s"`
}

// Ledger is the campaign's resumable progress record. The campaign driver
// process is its single writer for the campaign's lifetime; no other
// process touches the file, so no locking is needed.
type Ledger struct {
	SchemaVersion int               `json:"schema_version"`
	Config        map[string]string `json:"config"`
	Runs          []RunRecord       `json:"runs"`
	Summary       Summary           `json:"summary"`

	path string
}

// LoadLedger reads an existing ledger or starts a fresh one when the file
// does not exist yet.
func LoadLedger(path string) (*Ledger, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Ledger{SchemaVersion: LedgerSchemaVersion, path: path}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}
	var l Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parsing ledger %s: %w", path, err)
	}
	if l.SchemaVersion != LedgerSchemaVersion {
		return nil, fmt.Errorf("ledger %s: schema version %d, want %d", path, l.SchemaVersion, LedgerSchemaVersion)
	}
	l.path = path
	return &l, nil
}

// HasSuccess reports whether any recorded attempt for the scenario
// returned 0. Any success suffices; retries may add rows for the same id.
func (l *Ledger) HasSuccess(scenario string) bool {
	for _, r := range l.Runs {
		if r.Scenario == scenario && r.ReturnCode == 0 {
			return true
		}
	}
	return false
}

// Append records one attempt and flushes the whole ledger to disk
// immediately, so a hard crash loses at most the in-flight scenario.
func (l *Ledger) Append(rec RunRecord) error {
	l.Runs = append(l.Runs, rec)
	return l.Save()
}

// Save recomputes the summary and rewrites the ledger file.
func (l *Ledger) Save() error {
	l.Summary = Summarize(l.Runs)
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling ledger: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("writing ledger: %w", err)
	}
	return nil
}

// Summarize folds run rows into a summary. A scenario counts as ok when
// any of its attempts succeeded.
func Summarize(runs []RunRecord) Summary {
	s := Summary{FailedIDs: []string{}}
	ok := map[string]bool{}
	failed := map[string]bool{}
	var elapsed float64
	for _, r := range runs {
		elapsed += r.ElapsedS
		if r.ReturnCode == 0 {
			ok[r.Scenario] = true
		} else {
			failed[r.Scenario] = true
		}
	}
	for id := range failed {
		if !ok[id] {
			s.FailedIDs = append(s.FailedIDs, id)
		}
	}
	sort.Strings(s.FailedIDs)
	s.OK = len(ok)
	s.Failed = len(s.FailedIDs)
	s.Total = s.OK + s.Failed
	if len(runs) > 0 {
		s.AvgElapsedS = elapsed / float64(len(runs))
	}
	return s
}

// EventLog mirrors every ledger append to a line-oriented file for
// streaming observability (tail -f friendly).
type EventLog struct {
	Path string
}

func (e *EventLog) Append(rec RunRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	f, err := os.OpenFile(e.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening event log: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing event log: %w", err)
	}
	return nil
}
