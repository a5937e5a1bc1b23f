package reactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/habersim/internal/catalyst"
	"github.com/san-kum/habersim/internal/dynamo"
	"github.com/san-kum/habersim/internal/physics"
)

func twoBedInstance(t *testing.T) *Instance {
	t.Helper()
	inst, err := NewBuilder(200, catalyst.KMIR).
		AddBed(713, 10, 727, -2.691122).
		AddBed(673, 7.5, 727, -2.708).
		Build()
	require.NoError(t, err)
	return inst
}

// fakeBed produces n samples starting at x0 that convert some hydrogen into
// ammonia while heating up from t0.
func fakeBed(x0 float64, y0 dynamo.State, n int) ([]float64, []dynamo.State) {
	xs := make([]float64, n)
	ys := make([]dynamo.State, n)
	for i := 0; i < n; i++ {
		y := y0.Clone()
		d := float64(i)
		y[physics.N2] -= 0.5 * d
		y[physics.H2] -= 1.5 * d
		y[physics.NH3] += d
		y[physics.Temp] += 2 * d
		xs[i] = x0 + 0.1*d
		ys[i] = y
	}
	return xs, ys
}

func runFake(t *testing.T, inst *Instance, n int) {
	t.Helper()
	for i := inst.ResultCount(); i < inst.BedCount(); i++ {
		in, err := inst.SolverInput(i)
		require.NoError(t, err)
		xs, ys := fakeBed(in.X0, in.Y0, n)
		require.NoError(t, inst.AppendResult(i, xs, ys))
	}
}

func TestBuilderRequiresBed(t *testing.T) {
	_, err := NewBuilder(200, catalyst.KMIR).Build()
	assert.ErrorIs(t, err, ErrEmptyBedList)
}

func TestBuilderCopiesBeds(t *testing.T) {
	b := NewBuilder(100, catalyst.FN).AddBed(643, 30, 727, -2.691122)
	inst, err := b.Build()
	require.NoError(t, err)

	b.AddBed(623, 15, 727, -2.708)
	assert.Equal(t, 1, inst.BedCount())
	assert.Equal(t, catalyst.FN, inst.Catalyst())
	assert.Equal(t, 100.0, inst.Pressure())
	assert.False(t, inst.Complete())
}

func TestSolverInputFirstBed(t *testing.T) {
	inst := twoBedInstance(t)

	in, err := inst.SolverInput(0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, in.X0)
	require.Len(t, in.Y0, physics.StateDim)
	for i, frac := range FeedComposition {
		assert.InDelta(t, frac*200, in.Y0[i], 1e-12)
	}
	assert.Equal(t, 713.0, in.Y0[physics.Temp])
	assert.Equal(t, -2.691122, in.Model.Beta)
	assert.Equal(t, 10.0, in.Model.TSlope)
}

func TestSolverInputCarriesComposition(t *testing.T) {
	inst := twoBedInstance(t)

	in0, err := inst.SolverInput(0)
	require.NoError(t, err)
	xs, ys := fakeBed(in0.X0, in0.Y0, 5)
	require.NoError(t, inst.AppendResult(0, xs, ys))

	in1, err := inst.SolverInput(1)
	require.NoError(t, err)
	assert.Equal(t, xs[4], in1.X0)
	assert.Equal(t, []float64(ys[4][:physics.Temp]), []float64(in1.Y0[:physics.Temp]))
	assert.Equal(t, 673.0, in1.Y0[physics.Temp])

	// the stored result must not alias the returned initial state
	in1.Y0[physics.N2] = -1
	r, err := inst.Result(0)
	require.NoError(t, err)
	assert.NotEqual(t, -1.0, r.Y[4][physics.N2])
}

func TestSolverInputErrors(t *testing.T) {
	inst := twoBedInstance(t)

	_, err := inst.SolverInput(1)
	assert.ErrorIs(t, err, ErrPredecessorMissing)

	_, err = inst.SolverInput(2)
	assert.ErrorIs(t, err, ErrBedIndexOutOfRange)

	_, err = inst.SolverInput(-1)
	assert.ErrorIs(t, err, ErrBedIndexOutOfRange)
}

func TestAppendResultOrdering(t *testing.T) {
	inst := twoBedInstance(t)
	in0, err := inst.SolverInput(0)
	require.NoError(t, err)
	xs, ys := fakeBed(in0.X0, in0.Y0, 3)

	assert.ErrorIs(t, inst.AppendResult(1, xs, ys), ErrPredecessorMissing)
	require.NoError(t, inst.AppendResult(0, xs, ys))
	assert.ErrorIs(t, inst.AppendResult(0, xs, ys), ErrResultExists)

	runFake(t, inst, 3)
	assert.True(t, inst.Complete())
	assert.ErrorIs(t, inst.AppendResult(2, xs, ys), ErrResultsExhausted)
	assert.ErrorIs(t, inst.AppendResult(0, xs, ys), ErrResultsExhausted)
}

func TestAppendResultMalformed(t *testing.T) {
	good := dynamo.State{1, 2, 3, 4, 5, 700}

	tests := []struct {
		name string
		x    []float64
		y    []dynamo.State
	}{
		{"empty", nil, nil},
		{"length mismatch", []float64{0, 1}, []dynamo.State{good}},
		{"not increasing", []float64{0, 0}, []dynamo.State{good, good}},
		{"short state", []float64{0}, []dynamo.State{{1, 2, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := twoBedInstance(t)
			err := inst.AppendResult(0, tt.x, tt.y)
			assert.ErrorIs(t, err, ErrMalformedResult)
			assert.Equal(t, 0, inst.ResultCount())
		})
	}
}

func TestAppendResultCopies(t *testing.T) {
	inst := twoBedInstance(t)
	in0, err := inst.SolverInput(0)
	require.NoError(t, err)
	xs, ys := fakeBed(in0.X0, in0.Y0, 3)
	require.NoError(t, inst.AppendResult(0, xs, ys))

	xs[0] = 99
	ys[0][physics.NH3] = 99

	r, err := inst.Result(0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.X[0])
	assert.NotEqual(t, 99.0, r.Y[0][physics.NH3])
}

func TestResultAccess(t *testing.T) {
	inst := twoBedInstance(t)

	_, err := inst.Result(0)
	assert.ErrorIs(t, err, ErrNoResults)
	_, err = inst.Result(5)
	assert.ErrorIs(t, err, ErrBedIndexOutOfRange)

	runFake(t, inst, 4)
	assert.Len(t, inst.Results(), 2)
	bed, err := inst.Bed(1)
	require.NoError(t, err)
	assert.Equal(t, 673.0, bed.TStart)
	assert.Len(t, inst.Beds(), 2)
}
