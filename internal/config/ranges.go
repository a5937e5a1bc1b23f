package config

import (
	"github.com/san-kum/habersim/internal/catalyst"
	"github.com/san-kum/habersim/internal/reactor"
)

// Slider describes one bounded numeric input of a UI. The effective value
// is the integer position times Factor.
type Slider struct {
	Min     int     `json:"min"`
	Max     int     `json:"max"`
	Step    int     `json:"step"`
	Default int     `json:"default"`
	Factor  float64 `json:"factor"`
}

func (s Slider) withDefault(def int) Slider {
	s.Default = def
	return s
}

func (s Slider) DefaultValue() float64 { return float64(s.Default) * s.Factor }

type AxisSliders struct {
	Length        Slider `json:"length"`
	Concentration Slider `json:"concentration"`
	TempMin       Slider `json:"temp_min"`
	TempMax       Slider `json:"temp_max"`
}

// InputRanges is the allowed input space for one catalyst.
type InputRanges struct {
	Catalyst   catalyst.Catalyst `json:"catalyst"`
	Pressure   Slider            `json:"pressure"`
	BedCount   Slider            `json:"bed_count"`
	StartTemps []Slider          `json:"start_temps"`
	Axis       AxisSliders       `json:"axis"`
}

func DefaultAxisSliders() AxisSliders {
	return AxisSliders{
		Length:        Slider{Min: 1, Max: 11, Step: 1, Default: 8, Factor: 0.1},
		Concentration: Slider{Min: 1, Max: 11, Step: 1, Default: 8, Factor: 0.1},
		TempMin:       Slider{Min: 330, Max: 430, Step: 5, Default: 400, Factor: 1},
		TempMax:       Slider{Min: 400, Max: 500, Step: 5, Default: 450, Factor: 1},
	}
}

// Ranges returns the input table of cat. Start temperatures are in °C.
// The third bed has no case-study value and defaults 40 °C below the second.
func Ranges(cat catalyst.Catalyst) InputRanges {
	var pressure, temp Slider
	var defaults []int

	switch cat {
	case catalyst.FN:
		pressure = Slider{Min: 85, Max: 115, Step: 1, Default: int(FNPressure), Factor: 1}
		temp = Slider{Min: 300, Max: 420, Step: 5, Factor: 1}
		defaults = []int{370, 350, 310}
	default:
		pressure = Slider{Min: 180, Max: 220, Step: 1, Default: int(KMIRPressure), Factor: 1}
		temp = Slider{Min: 350, Max: 470, Step: 1, Factor: 1}
		defaults = []int{440, 400, 360}
	}

	temps := make([]Slider, len(defaults))
	for i, d := range defaults {
		temps[i] = temp.withDefault(d)
	}

	return InputRanges{
		Catalyst:   cat,
		Pressure:   pressure,
		BedCount:   Slider{Min: 1, Max: 3, Step: 1, Default: 2, Factor: 1},
		StartTemps: temps,
		Axis:       DefaultAxisSliders(),
	}
}

// Axis fixes the chart scales instead of deriving them from the data.
// Lengths and concentrations are upper bounds starting at zero;
// temperatures are in °C.
type Axis struct {
	LengthMax        float64 `json:"length_max" yaml:"length_max"`
	ConcentrationMax float64 `json:"concentration_max" yaml:"concentration_max"`
	TempMin          float64 `json:"temp_min" yaml:"temp_min"`
	TempMax          float64 `json:"temp_max" yaml:"temp_max"`
}

func DefaultAxis() Axis {
	s := DefaultAxisSliders()
	return Axis{
		LengthMax:        s.Length.DefaultValue(),
		ConcentrationMax: s.Concentration.DefaultValue(),
		TempMin:          s.TempMin.DefaultValue(),
		TempMax:          s.TempMax.DefaultValue(),
	}
}

func (a Axis) Ranges() reactor.Ranges {
	return reactor.Ranges{
		X:             reactor.Range{Min: 0, Max: a.LengthMax},
		Concentration: reactor.Range{Min: 0, Max: a.ConcentrationMax},
		Temperature:   reactor.Range{Min: a.TempMin, Max: a.TempMax},
	}
}
