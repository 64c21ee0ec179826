package agent

import "fmt"

// Env var names carrying the scenario resource to the agent process, one
// per scenario family contract.
const (
	EnvStateDir = "GAUNTLET_STATE_DIR"
	EnvPort     = "GAUNTLET_PORT"
	EnvHost     = "GAUNTLET_HOST"
)

// Spec is one racing agent's resolved identity: a deduplicated name, the
// table entry it was drawn from, and the exclusive resource (port or state
// directory) assigned to it. Created per race, discarded after.
type Spec struct {
	Name     string
	Type     string
	Binary   string
	Image    string
	Model    string
	Port     int
	StateDir string
	Env      map[string]string
}

// Resource names the scenario resource the agent was given, for logs and
// result rows.
func (s *Spec) Resource() string {
	if s.StateDir != "" {
		return s.StateDir
	}
	return fmt.Sprintf("port %d", s.Port)
}

// DedupNames makes agent names unique before any resource is assigned or
// process spawned. Names that collide are all suffixed: ["codex","codex"]
// becomes ["codex-1","codex-2"]. Already-unique names pass through.
func DedupNames(names []string) []string {
	counts := map[string]int{}
	for _, n := range names {
		counts[n]++
	}
	next := map[string]int{}
	out := make([]string, len(names))
	for i, n := range names {
		if counts[n] == 1 {
			out[i] = n
			continue
		}
		next[n]++
		out[i] = fmt.Sprintf("%s-%d", n, next[n])
	}
	return out
}
