package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/habersim/internal/dynamo"
	"github.com/san-kum/habersim/internal/reactor"
)

// Compare runs a main scenario and an optional alternative side by side.
// The two instances share nothing, so each gets its own goroutine and its
// own integrator from newIntegrator. alt may be nil. Observers passed in
// opts are shared by both runs and must be safe for concurrent use.
func Compare(ctx context.Context, newIntegrator func() dynamo.Integrator, cfg dynamo.Config, main, alt *reactor.Instance, opts ...Option) error {
	insts := []*reactor.Instance{main}
	if alt != nil {
		insts = append(insts, alt)
	}
	names := []string{"main", "alt"}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	for i, inst := range insts {
		wg.Add(1)
		go func(idx int, inst *reactor.Instance) {
			defer wg.Done()

			r := New(newIntegrator(), cfg, opts...)
			r.log = r.log.With("scenario", names[idx])
			if err := r.Run(ctx, inst); err != nil {
				once.Do(func() {
					firstErr = fmt.Errorf("%s scenario: %w", names[idx], err)
					cancel()
				})
			}
		}(i, inst)
	}

	wg.Wait()
	return firstErr
}
