package reactor

import (
	"math"

	"github.com/san-kum/habersim/internal/dynamo"
	"github.com/san-kum/habersim/internal/physics"
)

// KelvinOffset converts stored temperatures to degrees Celsius.
const KelvinOffset = 273.0

type Summary struct {
	BedLengths  []float64 `json:"bed_lengths"`
	TotalLength float64   `json:"total_length"`
	Yield       float64   `json:"yield"`
}

// Range is a closed interval used to scale charts.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Union returns the smallest range covering both r and o.
func (r Range) Union(o Range) Range {
	return Range{Min: math.Min(r.Min, o.Min), Max: math.Max(r.Max, o.Max)}
}

func (r Range) Span() float64 { return r.Max - r.Min }

// Ranges bundles the three chart ranges of one or more instances.
type Ranges struct {
	X             Range `json:"x"`
	Concentration Range `json:"concentration"`
	Temperature   Range `json:"temperature"`
}

func (r Ranges) Union(o Ranges) Ranges {
	return Ranges{
		X:             r.X.Union(o.X),
		Concentration: r.Concentration.Union(o.Concentration),
		Temperature:   r.Temperature.Union(o.Temperature),
	}
}

// moleSum is the total of the five gas components of y.
func moleSum(y dynamo.State) float64 {
	sum := 0.0
	for i := physics.N2; i <= physics.CH4; i++ {
		sum += y[i]
	}
	return sum
}

// Yield is the ammonia mole fraction of a single state.
func Yield(y dynamo.State) float64 {
	return y[physics.NH3] / moleSum(y)
}

// Summary reports the length of every finished bed, the total converter
// length and the ammonia yield at the outlet of the last finished bed.
func (in *Instance) Summary() (Summary, error) {
	if len(in.results) == 0 {
		return Summary{}, ErrNoResults
	}

	s := Summary{BedLengths: make([]float64, len(in.results))}
	prev := 0.0
	for i, r := range in.results {
		end, _ := r.Last()
		s.BedLengths[i] = end - prev
		prev = end
	}
	end, last := in.results[len(in.results)-1].Last()
	s.TotalLength = end
	s.Yield = Yield(last)
	return s, nil
}

// XRange spans from the reactor inlet to the last stored position.
func (in *Instance) XRange() Range {
	if len(in.results) == 0 {
		return Range{}
	}
	end, _ := in.results[len(in.results)-1].Last()
	return Range{Min: 0, Max: end}
}

// TemperatureRange is the observed temperature band in degrees Celsius.
func (in *Instance) TemperatureRange() Range {
	if len(in.results) == 0 {
		return Range{}
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range in.results {
		for _, y := range r.Y {
			lo = math.Min(lo, y[physics.Temp])
			hi = math.Max(hi, y[physics.Temp])
		}
	}
	return Range{Min: lo - KelvinOffset, Max: hi - KelvinOffset}
}

// ConcentrationRange runs from zero to the largest normalized fraction of
// N2, H2 or NH3. The inert components never drive the chart scale.
func (in *Instance) ConcentrationRange() Range {
	if len(in.results) == 0 {
		return Range{}
	}
	hi := 0.0
	for _, r := range in.results {
		for _, y := range r.Y {
			sum := moleSum(y)
			for i := physics.N2; i <= physics.NH3; i++ {
				hi = math.Max(hi, y[i]/sum)
			}
		}
	}
	return Range{Min: 0, Max: hi}
}

func (in *Instance) Ranges() Ranges {
	return Ranges{
		X:             in.XRange(),
		Concentration: in.ConcentrationRange(),
		Temperature:   in.TemperatureRange(),
	}
}

// YieldCurve pairs every stored sample's temperature in Celsius with its
// ammonia yield, in bed order. Plotted it shows how each bed climbs towards
// equilibrium and how the interstage cooling drops back to the next start.
func (in *Instance) YieldCurve() []Point {
	var out []Point
	for _, r := range in.results {
		for _, y := range r.Y {
			out = append(out, Point{X: y[physics.Temp] - KelvinOffset, Y: Yield(y)})
		}
	}
	return out
}
