package reactor

import (
	"fmt"

	"github.com/san-kum/habersim/internal/catalyst"
	"github.com/san-kum/habersim/internal/dynamo"
	"github.com/san-kum/habersim/internal/physics"
)

type BedSetup = physics.BedSetup

// FeedComposition is the mole fraction of N2, H2, NH3, Ar and CH4 entering
// the first bed. It is scaled by the reactor pressure.
var FeedComposition = [5]float64{0.2391, 0.623, 0.0413, 0.0793, 0.0172}

// BedResult is the trajectory of one bed. It is never modified after it has
// been stored.
type BedResult struct {
	X []float64
	Y []dynamo.State
}

func (r BedResult) Len() int { return len(r.X) }

func (r BedResult) Last() (float64, dynamo.State) {
	n := len(r.X) - 1
	return r.X[n], r.Y[n]
}

// SolverInput is everything the integrator needs to run one bed.
type SolverInput struct {
	Model *physics.Ammonia
	X0    float64
	Y0    dynamo.State
}

type Instance struct {
	pressure float64
	catalyst catalyst.Catalyst
	beds     []BedSetup
	results  []BedResult
}

func (in *Instance) BedCount() int { return len(in.beds) }

func (in *Instance) Pressure() float64 { return in.pressure }

func (in *Instance) Catalyst() catalyst.Catalyst { return in.catalyst }

func (in *Instance) ResultCount() int { return len(in.results) }

// Complete reports whether every bed has a result.
func (in *Instance) Complete() bool { return len(in.results) == len(in.beds) }

func (in *Instance) Beds() []BedSetup {
	out := make([]BedSetup, len(in.beds))
	copy(out, in.beds)
	return out
}

func (in *Instance) Bed(idx int) (BedSetup, error) {
	if idx < 0 || idx >= len(in.beds) {
		return BedSetup{}, fmt.Errorf("%w: %d (beds: %d)", ErrBedIndexOutOfRange, idx, len(in.beds))
	}
	return in.beds[idx], nil
}

func (in *Instance) Result(idx int) (BedResult, error) {
	if idx < 0 || idx >= len(in.beds) {
		return BedResult{}, fmt.Errorf("%w: %d (beds: %d)", ErrBedIndexOutOfRange, idx, len(in.beds))
	}
	if idx >= len(in.results) {
		return BedResult{}, fmt.Errorf("%w: bed %d", ErrNoResults, idx)
	}
	return in.results[idx], nil
}

func (in *Instance) Results() []BedResult {
	out := make([]BedResult, len(in.results))
	copy(out, in.results)
	return out
}

// SolverInput returns the model and initial condition of bed idx. Bed 0
// starts at x=0 with the pressure-scaled feed; later beds continue from the
// last stored sample of their predecessor. The temperature always restarts
// at the bed's TStart.
func (in *Instance) SolverInput(idx int) (SolverInput, error) {
	if idx < 0 || idx >= len(in.beds) {
		return SolverInput{}, fmt.Errorf("%w: %d (beds: %d)", ErrBedIndexOutOfRange, idx, len(in.beds))
	}
	if idx > len(in.results) {
		return SolverInput{}, fmt.Errorf("%w: bed %d needs bed %d", ErrPredecessorMissing, idx, idx-1)
	}

	bed := in.beds[idx]
	var (
		x0 float64
		y0 dynamo.State
	)
	if idx == 0 {
		y0 = make(dynamo.State, physics.StateDim)
		for i, frac := range FeedComposition {
			y0[i] = frac * in.pressure
		}
	} else {
		var last dynamo.State
		x0, last = in.results[idx-1].Last()
		y0 = last.Clone()
	}
	y0[physics.Temp] = bed.TStart

	return SolverInput{
		Model: physics.NewAmmonia(in.pressure, in.catalyst, bed),
		X0:    x0,
		Y0:    y0,
	}, nil
}

// AppendResult stores the trajectory of bed idx. Results must arrive in bed
// order; the slices are copied.
func (in *Instance) AppendResult(idx int, x []float64, y []dynamo.State) error {
	if len(in.results) >= len(in.beds) {
		return ErrResultsExhausted
	}
	if idx < 0 || idx >= len(in.beds) {
		return fmt.Errorf("%w: %d (beds: %d)", ErrBedIndexOutOfRange, idx, len(in.beds))
	}
	if idx > len(in.results) {
		return fmt.Errorf("%w: bed %d needs bed %d", ErrPredecessorMissing, idx, idx-1)
	}
	if idx < len(in.results) {
		return fmt.Errorf("%w: bed %d", ErrResultExists, idx)
	}
	if err := validateResult(x, y); err != nil {
		return err
	}

	res := BedResult{
		X: make([]float64, len(x)),
		Y: make([]dynamo.State, len(y)),
	}
	copy(res.X, x)
	for i, s := range y {
		res.Y[i] = s.Clone()
	}
	in.results = append(in.results, res)
	return nil
}

func validateResult(x []float64, y []dynamo.State) error {
	if len(x) == 0 {
		return fmt.Errorf("%w: empty trajectory", ErrMalformedResult)
	}
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d positions but %d states", ErrMalformedResult, len(x), len(y))
	}
	for i := range x {
		if len(y[i]) != physics.StateDim {
			return fmt.Errorf("%w: state %d has %d components", ErrMalformedResult, i, len(y[i]))
		}
		if i > 0 && x[i] <= x[i-1] {
			return fmt.Errorf("%w: positions not increasing at %d", ErrMalformedResult, i)
		}
	}
	return nil
}
