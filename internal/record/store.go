package record

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists completed races as a JSON array, append-only. It is
// single-writer by design: concurrent campaigns must point at distinct
// files. No locking is implemented, and that is a documented constraint of
// the file contract, not an omission.
type Store struct {
	Path string
}

// Append reads the existing record array (a missing file counts as empty),
// appends run, and writes the whole array back. Write errors propagate:
// losing the audit trail is worse than crashing.
func (s *Store) Append(run *RaceRun) error {
	runs, err := s.Read()
	if err != nil {
		return err
	}
	runs = append(runs, *run)

	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling race records: %w", err)
	}
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating record dir: %w", err)
		}
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("writing race records: %w", err)
	}
	return nil
}

// Read returns every stored race. A missing file yields an empty slice.
func (s *Store) Read() ([]RaceRun, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading race records: %w", err)
	}
	var runs []RaceRun
	if err := json.Unmarshal(data, &runs); err != nil {
		return nil, fmt.Errorf("parsing race records %s: %w", s.Path, err)
	}
	return runs, nil
}
