package physics

import (
	"math"

	"github.com/san-kum/habersim/internal/catalyst"
	"github.com/san-kum/habersim/internal/dynamo"
)

const (
	GasConstant      = 1.987 // cal/(mol·K)
	AmmoniaThreshold = 1e-3
)

// Component indices of the reactor state vector.
const (
	N2 = iota
	H2
	NH3
	Ar
	CH4
	Temp
	StateDim
)

// BedSetup is the thermal profile of one catalyst bed. Beta parameterizes
// the equilibrium-constant correlation; TStart, TSlope and TMax describe a
// linear temperature ramp along the bed that is pulled back once it reaches TMax.
type BedSetup struct {
	Beta   float64 `json:"beta" yaml:"beta"`
	TStart float64 `json:"t_start" yaml:"t_start"`
	TSlope float64 `json:"t_slope" yaml:"t_slope"`
	TMax   float64 `json:"t_max" yaml:"t_max"`
}

// Ammonia is the rate model N2 + 3H2 <-> 2NH3 for a single bed.
type Ammonia struct {
	Pressure float64
	Catalyst catalyst.Catalyst

	Ea    float64
	A     float64
	Alpha float64

	Beta   float64
	TSlope float64
	TMax   float64
}

func NewAmmonia(pressure float64, cat catalyst.Catalyst, bed BedSetup) *Ammonia {
	k := catalyst.Lookup(cat)
	return &Ammonia{
		Pressure: pressure,
		Catalyst: cat,
		Ea:       k.Ea,
		A:        k.A,
		Alpha:    k.Alpha,
		Beta:     bed.Beta,
		TSlope:   bed.TSlope,
		TMax:     bed.TMax,
	}
}

// RateConstant is the Arrhenius rate constant at temperature t (K).
func (m *Ammonia) RateConstant(t float64) float64 {
	return m.A * math.Exp(-m.Ea/(GasConstant*t))
}

// EquilibriumConstant evaluates the Gillespie-Beattie style correlation for Ka.
func (m *Ammonia) EquilibriumConstant(t float64) float64 {
	log10Ka := m.Beta*math.Log10(t) - 5.519265e-5*t + 1.848863e-7*t*t + 2001.6/t + 2.6899
	return math.Pow(10, log10Ka)
}

// Rate returns the ammonia formation rate for the given state, before the
// fugacity correction.
func (m *Ammonia) Rate(y dynamo.State) float64 {
	n2, h2, nh3, t := y[N2], y[H2], y[NH3], y[Temp]

	k := m.RateConstant(t)
	ka := m.EquilibriumConstant(t)

	h2Cubed := h2 * h2 * h2
	t1 := ka * ka * n2 * math.Pow(h2Cubed/(nh3*nh3), m.Alpha)
	t2 := math.Pow(nh3*nh3/h2Cubed, 1-m.Alpha)

	return k * (t1 - t2)
}

// Derive implements dynamo.System.
func (m *Ammonia) Derive(_ float64, y dynamo.State) dynamo.State {
	rNH3 := m.Rate(y)
	rN2 := rNH3 / 2
	rH2 := 3 * rNH3 / 2

	dy := make(dynamo.State, StateDim)
	dy[N2] = -rN2
	dy[H2] = -rH2
	dy[NH3] = rNH3

	// Past TMax the ramp turns into a restoring term instead of a hard clamp.
	dy[Temp] = m.TSlope
	if y[Temp] >= m.TMax {
		dy[Temp] = m.TMax - y[Temp]
	}

	return dy.Mul(Fugacity(y[Temp], m.Pressure))
}

// ShouldStop reports that ammonia production inside the bed has died out.
func (m *Ammonia) ShouldStop(dy dynamo.State) bool {
	return dy[NH3] < AmmoniaThreshold
}
