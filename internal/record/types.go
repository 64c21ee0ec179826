package record

import "time"

// AgentResultRow is the canonical per-agent result shape consumed by the
// leaderboard, independent of the originating scenario's native score
// schema. Every launched agent gets exactly one row, zero-filled with an
// error string when the agent or its score collection failed.
type AgentResultRow struct {
	Agent           string  `json:"agent"`
	AgentType       string  `json:"agent_type"`
	CompositeScore  float64 `json:"composite_score"`
	SecondaryMetric float64 `json:"secondary_metric"`
	DurationS       float64 `json:"duration"`
	Error           string  `json:"error"`
}

// RaceRun is one race's full record. Immutable once appended to the store.
type RaceRun struct {
	RunID        string           `json:"run_id"`
	Scenario     string           `json:"scenario"`
	Seed         int              `json:"seed"`
	Variant      string           `json:"variant"`
	DurationUnit string           `json:"duration_unit"`
	Duration     int              `json:"duration"`
	Agents       []string         `json:"agents"`
	Results      []AgentResultRow `json:"results"`
	CreatedAt    time.Time        `json:"created_at"`
}
