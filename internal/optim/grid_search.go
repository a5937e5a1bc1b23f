package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/habersim/internal/config"
	"github.com/san-kum/habersim/internal/reactor"
)

var ErrNoFeasible = errors.New("optim: no grid point could be simulated")

// RunFunc simulates every bed of inst.
type RunFunc func(ctx context.Context, inst *reactor.Instance) error

// GridSearch varies the inlet temperature of selected beds over a grid and
// keeps the combination with the highest ammonia yield.
type GridSearch struct {
	beds  []int
	temps [][]float64
}

// Result holds the best inlet temperatures (K) in the order of the searched
// beds.
type Result struct {
	Temps     []float64
	Yield     float64
	Evaluated int
	Failed    int
}

// NewGridSearch searches temps[i] for bed beds[i]. Temperatures are kelvin.
func NewGridSearch(beds []int, temps [][]float64) (*GridSearch, error) {
	if len(beds) == 0 || len(beds) != len(temps) {
		return nil, fmt.Errorf("optim: %d beds but %d temperature grids", len(beds), len(temps))
	}
	for i, g := range temps {
		if len(g) == 0 {
			return nil, fmt.Errorf("optim: empty temperature grid for bed %d", beds[i])
		}
	}
	return &GridSearch{beds: beds, temps: temps}, nil
}

// Steps returns from, from+step, ... up to and including to.
func Steps(from, to, step float64) []float64 {
	if step <= 0 || to < from {
		return []float64{from}
	}
	n := int(math.Floor((to-from)/step+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = from + float64(i)*step
	}
	return out
}

func (g *GridSearch) Size() int {
	n := 1
	for _, t := range g.temps {
		n *= len(t)
	}
	return n
}

func (g *GridSearch) Search(ctx context.Context, base config.Scenario, run RunFunc) (Result, error) {
	for _, b := range g.beds {
		if b < 0 || b >= len(base.Beds) {
			return Result{}, fmt.Errorf("%w: %d", reactor.ErrBedIndexOutOfRange, b)
		}
	}

	res := Result{Yield: math.Inf(-1)}
	if err := g.searchRecursive(ctx, 0, base.Clone(), run, &res); err != nil {
		return Result{}, err
	}
	if res.Temps == nil {
		return res, ErrNoFeasible
	}
	return res, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current config.Scenario, run RunFunc, res *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.beds) {
		res.Evaluated++
		inst, err := current.Build()
		if err != nil {
			return err
		}
		if err := run(ctx, inst); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			res.Failed++
			return nil
		}
		s, err := inst.Summary()
		if err != nil {
			res.Failed++
			return nil
		}
		if s.Yield > res.Yield {
			res.Yield = s.Yield
			res.Temps = make([]float64, len(g.beds))
			for i, b := range g.beds {
				res.Temps[i] = current.Beds[b].TStart
			}
		}
		return nil
	}

	bed := g.beds[depth]
	for _, t := range g.temps[depth] {
		next := current.Clone()
		next.Beds[bed].TStart = t
		if err := g.searchRecursive(ctx, depth+1, next, run, res); err != nil {
			return err
		}
	}
	return nil
}
