package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is resolved once at startup and passed down the call chain.
// Nothing in the harness reads configuration through package state.
type Config struct {
	Agents     []Agent    `yaml:"agents"`
	PortBase   int        `yaml:"port_base"`
	MaxTurns   int        `yaml:"max_turns"`
	Results    Results    `yaml:"results"`
	Collect    Collect    `yaml:"collect"`
	Secrets    Secrets    `yaml:"secrets"`
	Summarizer Summarizer `yaml:"summarizer"`
}

// Agent is one entry in the known-agent table. Type names the agent
// program family ("claude", "codex", ...); Binary overrides the executable
// resolved for it. When Image is set the agent runs inside a container
// instead of as a direct child process.
type Agent struct {
	Type   string            `yaml:"type"`
	Binary string            `yaml:"binary"`
	Image  string            `yaml:"image"`
	Model  string            `yaml:"model"`
	Env    map[string]string `yaml:"env"`
}

type Results struct {
	Dir string `yaml:"dir"`
}

type Collect struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

type Secrets struct {
	EnvFile string `yaml:"env_file"`
}

// Summarizer names the external programs a seed sweep hands its result
// files to: Command aggregates them, GateCommand compares the aggregate
// against a baseline and rejects regressions via its exit code.
type Summarizer struct {
	Command     string `yaml:"command"`
	GateCommand string `yaml:"gate_command"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if len(cfg.Agents) == 0 {
		return fmt.Errorf("no agents defined")
	}
	seen := map[string]bool{}
	for i, a := range cfg.Agents {
		if a.Type == "" {
			return fmt.Errorf("agent %d: type is required", i)
		}
		if seen[a.Type] {
			return fmt.Errorf("agent %q: duplicate type", a.Type)
		}
		seen[a.Type] = true
		if a.Binary == "" {
			cfg.Agents[i].Binary = a.Type
		}
	}
	if cfg.PortBase == 0 {
		cfg.PortBase = 18100
	}
	if cfg.PortBase < 1024 || cfg.PortBase > 65000 {
		return fmt.Errorf("port_base %d out of range", cfg.PortBase)
	}
	if cfg.MaxTurns < 1 {
		cfg.MaxTurns = 40
	}
	if cfg.Results.Dir == "" {
		cfg.Results.Dir = "results"
	}
	if cfg.Collect.TimeoutSeconds < 1 {
		cfg.Collect.TimeoutSeconds = 10
	}
	return nil
}

// AgentByType looks up the table entry for an agent type.
func (c *Config) AgentByType(typ string) (Agent, bool) {
	for _, a := range c.Agents {
		if a.Type == typ {
			return a, true
		}
	}
	return Agent{}, false
}

// LoadSecrets reads a KEY=VALUE env file into a map. Blank lines and
// comments are skipped; an "export " prefix and surrounding quotes are
// tolerated.
func LoadSecrets(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading secrets env file: %w", err)
	}
	out := map[string]string{}
	for _, line := range strings.Split(string(data), "\n") {
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		s = strings.TrimPrefix(s, "export ")
		eq := strings.IndexByte(s, '=')
		if eq < 0 {
			continue
		}
		out[s[:eq]] = stripQuotes(s[eq+1:])
	}
	return out, nil
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
