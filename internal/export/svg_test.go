package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/habersim/internal/catalyst"
	"github.com/san-kum/habersim/internal/dynamo"
	"github.com/san-kum/habersim/internal/physics"
	"github.com/san-kum/habersim/internal/reactor"
)

// twoBeds returns a finished instance with straight-line fake profiles.
func twoBeds(t *testing.T) *reactor.Instance {
	t.Helper()
	inst, err := reactor.NewBuilder(200, catalyst.KMIR).
		AddBed(713, 10, 727, -2.691122).
		AddBed(673, 7.5, 727, -2.708).
		Build()
	require.NoError(t, err)

	for i := 0; i < inst.BedCount(); i++ {
		in, err := inst.SolverInput(i)
		require.NoError(t, err)
		xs := make([]float64, 5)
		ys := make([]dynamo.State, 5)
		for k := range xs {
			y := in.Y0.Clone()
			y[physics.NH3] += 0.01 * float64(k)
			y[physics.Temp] += 3 * float64(k)
			xs[k] = in.X0 + 0.1*float64(k)
			ys[k] = y
		}
		require.NoError(t, inst.AppendResult(i, xs, ys))
	}
	return inst
}

func TestConcentrationSVG(t *testing.T) {
	svg, err := ConcentrationSVG(twoBeds(t), Options{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
	assert.Contains(t, svg, `width="800" height="400"`)
	assert.Equal(t, 3, strings.Count(svg, "<path"))
	// one subpath per bed and gas
	assert.Equal(t, 6, strings.Count(svg, "M"))
}

func TestTemperatureSVGFixedAxis(t *testing.T) {
	axis := reactor.Ranges{
		X:           reactor.Range{Min: 0, Max: 1},
		Temperature: reactor.Range{Min: 400, Max: 460},
	}
	svg, err := TemperatureSVG(twoBeds(t), Options{Width: 100, Height: 60, Axis: &axis})
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(svg, "<path"))
	// bed 1 starts at 440 °C, x = 0
	assert.Contains(t, svg, `d="M0.0,20.0`)
}

func TestSVGRequiresResults(t *testing.T) {
	inst, err := reactor.NewBuilder(100, catalyst.FN).AddBed(643, 30, 727, -2.691122).Build()
	require.NoError(t, err)

	_, err = ConcentrationSVG(inst, Options{})
	assert.ErrorIs(t, err, reactor.ErrNoResults)
	_, err = TemperatureSVG(inst, Options{})
	assert.ErrorIs(t, err, reactor.ErrNoResults)
}
