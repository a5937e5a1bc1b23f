package integrators

import (
	"context"

	"github.com/san-kum/habersim/internal/dynamo"
)

// RK4 is the classic fixed-step Runge-Kutta integrator. It steps exactly on
// the output grid, so every accepted step is also an output sample.
type RK4 struct {
	k2, k3, k4 dynamo.State
	scratch    dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k2) != n {
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RK4) Integrate(ctx context.Context, sys dynamo.System, x0 float64, y0 dynamo.State, cfg dynamo.Config) (*dynamo.Trajectory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !y0.IsValid() {
		return nil, &dynamo.SimulationError{Time: x0, State: y0.Clone(), Wrapped: dynamo.ErrInvalidState}
	}
	r.ensureScratch(len(y0))

	grid := newOutputGrid(x0, cfg)
	traj := &dynamo.Trajectory{}
	traj.Emit(x0, y0)

	x := x0
	y := y0.Clone()
	f := sys.Derive(x, y)
	traj.Stats.Evaluations++
	if len(f) != len(y) {
		return traj, &dynamo.SimulationError{Time: x, State: y, Wrapped: dynamo.ErrDimensionMismatch}
	}

	for steps := 0; grid.pending(); steps++ {
		if steps%ctxCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return traj, &dynamo.SimulationError{Step: steps, Time: x, State: y.Clone(), Wrapped: dynamo.ErrContextCanceled}
			default:
			}
		}
		if steps >= cfg.MaxSteps {
			return traj, &dynamo.SimulationError{Step: steps, Time: x, State: y.Clone(), Wrapped: dynamo.ErrMaxSteps}
		}

		xNew := grid.next()
		y = r.step(sys, x, y, f, xNew-x)
		if !y.IsValid() {
			return traj, &dynamo.SimulationError{Step: steps, Time: xNew, State: y, Wrapped: dynamo.ErrInvalidState}
		}
		x = xNew
		f = sys.Derive(x, y)
		traj.Stats.Evaluations += 4
		traj.Stats.Accepted++
		traj.Emit(x, y)
		grid.advance()

		if sys.ShouldStop(f) {
			traj.Stopped = true
			break
		}
	}

	return traj, nil
}

// step advances x by dt given k1 = f(t, x).
func (r *RK4) step(dyn dynamo.System, t float64, x, k1 dynamo.State, dt float64) dynamo.State {
	n := len(x)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*k1[i]
	}
	k2 := dyn.Derive(t+dt*0.5, r.scratch)
	copy(r.k2, k2)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k2[i]
	}
	k3 := dyn.Derive(t+dt*0.5, r.scratch)
	copy(r.k3, k3)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*r.k3[i]
	}
	k4 := dyn.Derive(t+dt, r.scratch)
	copy(r.k4, k4)

	result := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}

	return result
}
