package reactor

import (
	"fmt"

	"github.com/san-kum/habersim/internal/dynamo"
	"github.com/san-kum/habersim/internal/physics"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Series is a restartable cursor over one component of every stored sample,
// walking beds in order and samples in order within a bed. It reads the
// instance without modifying it; results appended after the cursor was
// created are picked up as long as it has not passed them.
type Series struct {
	inst      *Instance
	component int
	normalize bool

	bed    int
	sample int
}

// Series returns a cursor for component (physics.N2..physics.Temp). The
// temperature is reported in Celsius and never normalized; the gas
// components are divided by the sample's total when normalize is set.
func (in *Instance) Series(component int, normalize bool) (*Series, error) {
	if component < 0 || component >= physics.StateDim {
		return nil, fmt.Errorf("%w: %d", ErrInvalidComponentIndex, component)
	}
	return &Series{inst: in, component: component, normalize: normalize}, nil
}

func (s *Series) Next() (Point, bool) {
	for s.bed < len(s.inst.results) {
		r := s.inst.results[s.bed]
		if s.sample < len(r.X) {
			p := Point{X: r.X[s.sample], Y: s.value(r.Y[s.sample])}
			s.sample++
			return p, true
		}
		s.bed++
		s.sample = 0
	}
	return Point{}, false
}

func (s *Series) value(y dynamo.State) float64 {
	if s.component == physics.Temp {
		return y[physics.Temp] - KelvinOffset
	}
	if s.normalize {
		return y[s.component] / moleSum(y)
	}
	return y[s.component]
}

// Reset rewinds the cursor to the first sample of the first bed.
func (s *Series) Reset() {
	s.bed = 0
	s.sample = 0
}

// Len is the total number of samples the cursor yields from the start.
func (s *Series) Len() int {
	n := 0
	for _, r := range s.inst.results {
		n += len(r.X)
	}
	return n
}

// Collect drains a fresh pass of the series into a slice. The cursor
// position is left untouched.
func (s *Series) Collect() []Point {
	c := *s
	c.Reset()
	out := make([]Point, 0, c.Len())
	for p, ok := c.Next(); ok; p, ok = c.Next() {
		out = append(out, p)
	}
	return out
}
