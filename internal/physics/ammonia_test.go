package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/habersim/internal/catalyst"
	"github.com/san-kum/habersim/internal/dynamo"
)

var kmirBed = BedSetup{Beta: -2.691122, TStart: 713, TSlope: 10, TMax: 727}

func feed(pressure, temp float64) dynamo.State {
	return dynamo.State{0.2391 * pressure, 0.623 * pressure, 0.0413 * pressure, 0.0793 * pressure, 0.0172 * pressure, temp}
}

func TestNewAmmoniaPullsCatalystConstants(t *testing.T) {
	m := NewAmmonia(200, catalyst.FN, kmirBed)

	assert.Equal(t, 38007.0, m.Ea)
	assert.Equal(t, 7.6683e+15, m.A)
	assert.Equal(t, 0.4, m.Alpha)
	assert.Equal(t, kmirBed.Beta, m.Beta)
	assert.Equal(t, kmirBed.TSlope, m.TSlope)
	assert.Equal(t, kmirBed.TMax, m.TMax)
	assert.Equal(t, 200.0, m.Pressure)
}

func TestRateConstantAndEquilibrium(t *testing.T) {
	m := NewAmmonia(200, catalyst.KMIR, kmirBed)

	assert.InDelta(t, 1.6066e+15*math.Exp(-40131/(1.987*713)), m.RateConstant(713), 1e-9)

	log10Ka := -2.691122*math.Log10(713) - 5.519265e-5*713 + 1.848863e-7*713*713 + 2001.6/713 + 2.6899
	assert.InDelta(t, math.Pow(10, log10Ka), m.EquilibriumConstant(713), 1e-15)
	assert.InDelta(t, 0.00748, m.EquilibriumConstant(713), 5e-5)

	// Equilibrium shifts away from ammonia as the bed heats up.
	assert.Less(t, m.EquilibriumConstant(800), m.EquilibriumConstant(700))
}

func TestDeriveStoichiometry(t *testing.T) {
	m := NewAmmonia(200, catalyst.KMIR, kmirBed)
	y := feed(200, 713)

	dy := m.Derive(0, y)
	require.Len(t, dy, StateDim)

	phi := Fugacity(713, 200)
	rNH3 := dy[NH3] / phi[NH3]

	assert.Greater(t, rNH3, 0.0, "fresh feed should react forward")
	assert.InDelta(t, m.Rate(y), rNH3, 1e-9*math.Abs(rNH3))
	assert.InDelta(t, -rNH3/2, dy[N2]/phi[N2], 1e-9*math.Abs(rNH3))
	assert.InDelta(t, -3*rNH3/2, dy[H2]/phi[H2], 1e-9*math.Abs(rNH3))
	assert.Zero(t, dy[Ar])
	assert.Zero(t, dy[CH4])
}

func TestDeriveReverseReaction(t *testing.T) {
	m := NewAmmonia(200, catalyst.KMIR, kmirBed)
	y := feed(200, 713)
	y[NH3] = 150

	assert.Less(t, m.Derive(0, y)[NH3], 0.0)
	assert.True(t, m.ShouldStop(m.Derive(0, y)))
}

func TestTemperatureRamp(t *testing.T) {
	m := NewAmmonia(200, catalyst.KMIR, kmirBed)

	tests := []struct {
		temp     float64
		expected float64
	}{
		{713, 10},
		{726.9, 10},
		{727, 0},
		{732, -5},
		{740, -13},
	}

	for _, tt := range tests {
		dy := m.Derive(0, feed(200, tt.temp))
		assert.InDelta(t, tt.expected, dy[Temp], 1e-12, "T=%v", tt.temp)
	}
}

func TestShouldStop(t *testing.T) {
	m := NewAmmonia(200, catalyst.KMIR, kmirBed)

	assert.True(t, m.ShouldStop(dynamo.State{0, 0, 0.0009, 0, 0, 0}))
	assert.True(t, m.ShouldStop(dynamo.State{0, 0, -1, 0, 0, 0}))
	assert.False(t, m.ShouldStop(dynamo.State{0, 0, 0.001, 0, 0, 0}))
	assert.False(t, m.ShouldStop(dynamo.State{0, 0, 3.5, 0, 0, 0}))
}

func TestFugacity(t *testing.T) {
	phi := Fugacity(713, 200)
	require.Len(t, phi, StateDim)

	assert.InDelta(t, 1.096, phi[N2], 5e-3)
	assert.InDelta(t, 1.057, phi[H2], 5e-3)
	assert.InDelta(t, 0.930, phi[NH3], 5e-3)
	assert.Equal(t, 1.0, phi[Ar])
	assert.Equal(t, 1.0, phi[CH4])
	assert.Equal(t, 1.0, phi[Temp])
}

func TestFugacityCorrelations(t *testing.T) {
	cases := []struct {
		t, p        float64
		n2, h2, nh3 float64
	}{
		{713, 200, 1.0961263514049, 1.0568877845428377, 0.9305008112949998},
		{700, 100, 1.0531517860000001, 1.0286538279710142, 0.9617176459999996},
	}

	for _, c := range cases {
		T, P := c.t, c.p
		n2 := 0.93431737 + 0.3101804e-3*T + 0.295896e-3*P - 0.2707279e-6*T*T + 0.4775207e-6*P*P
		h2 := math.Exp(math.Exp(-3.8402*math.Pow(T, 0.125)+0.541)*P -
			math.Exp(-0.1263*math.Sqrt(T)-15.980)*P*P +
			300*math.Exp(-0.011901*T-5.941)*(math.Exp(-P/300)-1))
		nh3 := 0.1438996 + 0.2028538e-2*T - 0.4487672e-3*P - 0.1142945e-5*T*T + 0.2761216e-6*P*P

		assert.InEpsilon(t, n2, FugacityN2(T, P), 1e-15, "N2 at T=%g P=%g", T, P)
		assert.InEpsilon(t, h2, FugacityH2(T, P), 1e-15, "H2 at T=%g P=%g", T, P)
		assert.InEpsilon(t, nh3, FugacityNH3(T, P), 1e-15, "NH3 at T=%g P=%g", T, P)

		assert.InEpsilon(t, c.n2, FugacityN2(T, P), 1e-13)
		assert.InEpsilon(t, c.h2, FugacityH2(T, P), 1e-13)
		assert.InEpsilon(t, c.nh3, FugacityNH3(T, P), 1e-13)
	}
}
