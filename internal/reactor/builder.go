package reactor

import "github.com/san-kum/habersim/internal/catalyst"

// Builder collects pressure, catalyst and the ordered bed list. Only an
// empty bed list is rejected; parameter sanity is up to the caller.
type Builder struct {
	pressure float64
	catalyst catalyst.Catalyst
	beds     []BedSetup
}

func NewBuilder(pressure float64, cat catalyst.Catalyst) *Builder {
	return &Builder{pressure: pressure, catalyst: cat}
}

func (b *Builder) AddBed(tStart, tSlope, tMax, beta float64) *Builder {
	return b.AddBedSetup(BedSetup{TStart: tStart, TSlope: tSlope, TMax: tMax, Beta: beta})
}

func (b *Builder) AddBedSetup(bed BedSetup) *Builder {
	b.beds = append(b.beds, bed)
	return b
}

func (b *Builder) Build() (*Instance, error) {
	if len(b.beds) == 0 {
		return nil, ErrEmptyBedList
	}
	beds := make([]BedSetup, len(b.beds))
	copy(beds, b.beds)
	return &Instance{
		pressure: b.pressure,
		catalyst: b.catalyst,
		beds:     beds,
	}, nil
}
