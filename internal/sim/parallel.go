package sim

import (
	"context"
	"sync"

	"github.com/san-kum/gravsim/internal/nbody"
)

// Ensemble runs independent simulations in parallel, one goroutine per
// member. The factory builds a fresh Simulation (with its own integrator)
// for each seed, so members share nothing.
type Ensemble struct {
	factory   func(seed int64) *nbody.Simulation
	numRuns   int
	seedStart int64
}

func NewEnsemble(factory func(seed int64) *nbody.Simulation, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			r := New(e.factory(e.seedStart + int64(idx)))
			results[idx], errs[idx] = r.Run(ctx, cfg)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
