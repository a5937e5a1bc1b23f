package integrators

import "github.com/san-kum/habersim/internal/dynamo"

// outputGrid walks the points x0 + k*dx for k = 1..steps. The last point is
// pinned to x0+span so rounding never drops the domain end.
type outputGrid struct {
	x0, dx, end float64
	steps, idx  int
}

func newOutputGrid(x0 float64, cfg dynamo.Config) *outputGrid {
	return &outputGrid{
		x0:    x0,
		dx:    cfg.OutputStep(),
		end:   x0 + cfg.Span,
		steps: cfg.OutputSteps,
		idx:   1,
	}
}

func (g *outputGrid) pending() bool { return g.idx <= g.steps }

func (g *outputGrid) next() float64 {
	if g.idx == g.steps {
		return g.end
	}
	return g.x0 + float64(g.idx)*g.dx
}

func (g *outputGrid) advance() { g.idx++ }
