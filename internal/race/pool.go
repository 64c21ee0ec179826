package race

import (
	"context"
	"fmt"
	"sync"

	"github.com/arenalab/gauntlet/internal/agent"
)

// runAgents launches every agent before any result is harvested, one OS
// process per agent, on a worker pool sized to the agent count. Results
// come back in arrival order, not launch order; one agent's failure never
// cancels or blocks its siblings.
func runAgents(ctx context.Context, opts []*agent.RunOpts) []*agent.Result {
	results := make(chan *agent.Result, len(opts))
	sem := make(chan struct{}, len(opts))
	var wg sync.WaitGroup

	for _, o := range opts {
		wg.Add(1)
		sem <- struct{}{}
		go func(o *agent.RunOpts) {
			defer wg.Done()
			defer func() { <-sem }()
			results <- protectedRun(ctx, o)
		}(o)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var out []*agent.Result
	for r := range results {
		out = append(out, r)
	}
	return out
}

// protectedRun keeps a panicking runner from taking down the race: the
// panic becomes that agent's failure result.
func protectedRun(ctx context.Context, o *agent.RunOpts) (res *agent.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = &agent.Result{
				Name:     o.Spec.Name,
				Resource: o.Spec.Resource(),
				ExitCode: agent.ExitLaunchFailure,
				ErrText:  fmt.Sprintf("launch failure: panic: %v", r),
			}
		}
	}()
	return agent.Run(ctx, o)
}
