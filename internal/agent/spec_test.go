package agent_test

import (
	"reflect"
	"testing"

	"github.com/arenalab/gauntlet/internal/agent"
)

func TestDedupNames(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"all unique pass through", []string{"claude", "codex"}, []string{"claude", "codex"}},
		{"pair collision suffixes both", []string{"codex", "codex"}, []string{"codex-1", "codex-2"}},
		{"triple collision", []string{"c", "c", "c"}, []string{"c-1", "c-2", "c-3"}},
		{"mixed", []string{"claude", "codex", "claude"}, []string{"claude-1", "codex", "claude-2"}},
		{"empty", []string{}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := agent.DedupNames(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DedupNames(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestResource(t *testing.T) {
	s := &agent.Spec{StateDir: "/tmp/state/claude"}
	if s.Resource() != "/tmp/state/claude" {
		t.Errorf("got %q", s.Resource())
	}
	s = &agent.Spec{Port: 18101}
	if s.Resource() != "port 18101" {
		t.Errorf("got %q", s.Resource())
	}
}
