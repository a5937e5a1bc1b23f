package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/habersim/internal/config"
	"github.com/san-kum/habersim/internal/dynamo"
	"github.com/san-kum/habersim/internal/physics"
	"github.com/san-kum/habersim/internal/reactor"
)

// peakRun converts more ammonia the closer a bed starts to 700 K.
func peakRun(ctx context.Context, inst *reactor.Instance) error {
	for i := 0; i < inst.BedCount(); i++ {
		in, err := inst.SolverInput(i)
		if err != nil {
			return err
		}
		d := (in.Y0[physics.Temp] - 700) / 100
		y := in.Y0.Clone()
		y[physics.NH3] += 10 * (1 - d*d)
		if err := inst.AppendResult(i, []float64{in.X0, in.X0 + 0.1}, []dynamo.State{in.Y0, y}); err != nil {
			return err
		}
	}
	return nil
}

func TestSteps(t *testing.T) {
	assert.Equal(t, []float64{680, 690, 700}, Steps(680, 700, 10))
	assert.Equal(t, []float64{0.1, 0.2, 0.30000000000000004}, Steps(0.1, 0.3, 0.1))
	assert.Equal(t, []float64{5}, Steps(5, 1, 1))
	assert.Equal(t, []float64{5}, Steps(5, 10, 0))
}

func TestGridSearchFindsPeak(t *testing.T) {
	grid := Steps(680, 720, 10)
	g, err := NewGridSearch([]int{0, 1}, [][]float64{grid, grid})
	require.NoError(t, err)
	assert.Equal(t, 25, g.Size())

	base := config.KMIRScenario()
	res, err := g.Search(context.Background(), base, peakRun)
	require.NoError(t, err)

	assert.Equal(t, []float64{700, 700}, res.Temps)
	assert.Equal(t, 25, res.Evaluated)
	assert.Zero(t, res.Failed)
	assert.Greater(t, res.Yield, 0.0)
	// the base scenario is left alone
	assert.Equal(t, 713.0, base.Beds[0].TStart)
}

func TestGridSearchSkipsFailures(t *testing.T) {
	g, err := NewGridSearch([]int{1}, [][]float64{{690, 700, 710}})
	require.NoError(t, err)

	run := func(ctx context.Context, inst *reactor.Instance) error {
		if inst.Beds()[1].TStart == 700 {
			return errors.New("solver blew up")
		}
		return peakRun(ctx, inst)
	}

	res, err := g.Search(context.Background(), config.KMIRScenario(), run)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Evaluated)
	assert.Equal(t, 1, res.Failed)
	assert.Len(t, res.Temps, 1)
	assert.NotEqual(t, 700.0, res.Temps[0])
}

func TestGridSearchNoFeasible(t *testing.T) {
	g, err := NewGridSearch([]int{0}, [][]float64{{700}})
	require.NoError(t, err)

	fail := func(context.Context, *reactor.Instance) error { return errors.New("nope") }
	_, err = g.Search(context.Background(), config.FNScenario(), fail)
	assert.ErrorIs(t, err, ErrNoFeasible)
}

func TestGridSearchErrors(t *testing.T) {
	_, err := NewGridSearch(nil, nil)
	assert.Error(t, err)
	_, err = NewGridSearch([]int{0}, [][]float64{{}})
	assert.Error(t, err)

	g, err := NewGridSearch([]int{5}, [][]float64{{700}})
	require.NoError(t, err)
	_, err = g.Search(context.Background(), config.KMIRScenario(), peakRun)
	assert.ErrorIs(t, err, reactor.ErrBedIndexOutOfRange)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g, err = NewGridSearch([]int{0}, [][]float64{{700}})
	require.NoError(t, err)
	_, err = g.Search(ctx, config.KMIRScenario(), peakRun)
	assert.ErrorIs(t, err, context.Canceled)
}
