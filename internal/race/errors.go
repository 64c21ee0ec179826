package race

import "fmt"

// ConfigError is fatal before any process is spawned: an unknown scenario,
// an empty agent list, an agent type missing from the table.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Reason
}

// ReadinessError means a scenario server never became live. It aborts the
// race after every sibling server has been torn down.
type ReadinessError struct {
	Port     int
	Attempts int
}

func (e *ReadinessError) Error() string {
	return fmt.Sprintf("server on port %d not ready after %d attempts", e.Port, e.Attempts)
}

// FailedError reports how many agents of a finished race did not produce a
// clean result. The race itself completed; this drives the process exit
// code consumed by campaign and sweep drivers.
type FailedError struct {
	Failed int
	Total  int
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("%d of %d agents failed", e.Failed, e.Total)
}
