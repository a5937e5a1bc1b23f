package integrators

import (
	"context"
	"math"

	"github.com/san-kum/habersim/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

const (
	ctxCheckInterval = 256
	machineEpsilon   = 2.220446049250313e-16
)

// RK45 is an adaptive Dormand-Prince 5(4) integrator. Output is produced on
// the fixed grid x0 + k*Span/OutputSteps by cubic Hermite interpolation
// between accepted steps, plus the step end where the system asks to stop.
type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64
}

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

func (r *RK45) Integrate(ctx context.Context, sys dynamo.System, x0 float64, y0 dynamo.State, cfg dynamo.Config) (*dynamo.Trajectory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !y0.IsValid() {
		return nil, &dynamo.SimulationError{Time: x0, State: y0.Clone(), Wrapped: dynamo.ErrInvalidState}
	}

	xEnd := x0 + cfg.Span
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

	h := cfg.InitialStep
	if h <= 0 {
		h = cfg.OutputStep()
	}

	for steps := 0; x < xEnd; steps++ {
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

		last := false
		if x+h >= xEnd-4*machineEpsilon*math.Max(1, math.Abs(xEnd)) {
			h = xEnd - x
			last = true
		}
		if h <= 4*machineEpsilon*math.Max(1, math.Abs(x)) {
			return traj, &dynamo.SimulationError{Step: steps, Time: x, State: y.Clone(), Wrapped: dynamo.ErrStepTooSmall}
		}

		yNew, fNew, errNorm := r.attempt(sys, x, y, f, h, cfg)
		traj.Stats.Evaluations += 6

		if math.IsNaN(errNorm) || math.IsInf(errNorm, 0) || !yNew.IsValid() {
			traj.Stats.Rejected++
			h *= r.minScale
			continue
		}
		if errNorm > 1 {
			traj.Stats.Rejected++
			h *= math.Max(r.minScale, r.safety*math.Pow(errNorm, -0.2))
			continue
		}
		traj.Stats.Accepted++

		xNew := x + h
		if last {
			xNew = xEnd
		}
		for grid.pending() && grid.next() <= xNew {
			xo := grid.next()
			traj.Emit(xo, hermite(x, xNew, y, yNew, f, fNew, xo))
			grid.advance()
		}

		stop := sys.ShouldStop(fNew)
		if stop {
			traj.Emit(xNew, yNew)
		}
		x, y, f = xNew, yNew, fNew
		if stop {
			traj.Stopped = true
			break
		}

		scale := r.maxScale
		if errNorm > 0 {
			scale = math.Min(r.maxScale, r.safety*math.Pow(errNorm, -0.2))
		}
		h = math.Min(h*scale, cfg.Span)
	}

	return traj, nil
}

// attempt performs one Dormand-Prince step of size dt and returns the
// fifth-order solution, its derivative (FSAL) and the scaled RMS error.
func (r *RK45) attempt(dyn dynamo.System, t float64, x, k1 dynamo.State, dt float64, cfg dynamo.Config) (dynamo.State, dynamo.State, float64) {
	n := len(x)

	x2 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x2[i] = x[i] + dt*b21*k1[i]
	}
	k2 := dyn.Derive(t+a2*dt, x2)

	x3 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x3[i] = x[i] + dt*(b31*k1[i]+b32*k2[i])
	}
	k3 := dyn.Derive(t+a3*dt, x3)

	x4 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x4[i] = x[i] + dt*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	k4 := dyn.Derive(t+a4*dt, x4)

	x5 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x5[i] = x[i] + dt*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	k5 := dyn.Derive(t+a5*dt, x5)

	x6 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x6[i] = x[i] + dt*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	k6 := dyn.Derive(t+dt, x6)

	xNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dt*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}

	k7 := dyn.Derive(t+dt, xNew)

	sum := 0.0
	for i := 0; i < n; i++ {
		errEst := dt * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		scale := cfg.AbsTol + cfg.RelTol*math.Max(math.Abs(x[i]), math.Abs(xNew[i]))
		sum += (errEst / scale) * (errEst / scale)
	}

	return xNew, k7, math.Sqrt(sum / float64(n))
}

// hermite evaluates the cubic Hermite interpolant through (x0, y0, f0) and
// (x1, y1, f1) at xo.
func hermite(x0, x1 float64, y0, y1, f0, f1 dynamo.State, xo float64) dynamo.State {
	h := x1 - x0
	th := (xo - x0) / h
	th2 := th * th
	th3 := th2 * th

	h00 := 2*th3 - 3*th2 + 1
	h10 := th3 - 2*th2 + th
	h01 := -2*th3 + 3*th2
	h11 := th3 - th2

	out := make(dynamo.State, len(y0))
	for i := range y0 {
		out[i] = h00*y0[i] + h10*h*f0[i] + h01*y1[i] + h11*h*f1[i]
	}
	return out
}
