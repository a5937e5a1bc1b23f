package config

import (
	"sort"

	"github.com/san-kum/habersim/internal/catalyst"
	"github.com/san-kum/habersim/internal/dynamo"
	"github.com/san-kum/habersim/internal/reactor"
)

// Case-study constants. Start temperatures are 440/400 °C for KMIR and
// 370/350 °C for FN; every bed is capped at 727 K.
const (
	KMIRPressure = 200.0
	FNPressure   = 100.0

	BetaFirstBed  = -2.691122
	BetaSecondBed = -2.708
	BedMaxTemp    = 490.0 + 237.0
)

func KMIRScenario() Scenario {
	return Scenario{
		Catalyst: catalyst.KMIR,
		Pressure: KMIRPressure,
		Beds: []reactor.BedSetup{
			{TStart: 440 + 273, TSlope: 10, TMax: BedMaxTemp, Beta: BetaFirstBed},
			{TStart: 400 + 273, TSlope: 7.5, TMax: BedMaxTemp, Beta: BetaSecondBed},
		},
	}
}

func FNScenario() Scenario {
	return Scenario{
		Catalyst: catalyst.FN,
		Pressure: FNPressure,
		Beds: []reactor.BedSetup{
			{TStart: 370 + 273, TSlope: 30, TMax: BedMaxTemp, Beta: BetaFirstBed},
			{TStart: 350 + 273, TSlope: 15, TMax: BedMaxTemp, Beta: BetaSecondBed},
		},
	}
}

// ScenarioFor returns the case study of cat.
func ScenarioFor(cat catalyst.Catalyst) Scenario {
	if cat == catalyst.FN {
		return FNScenario()
	}
	return KMIRScenario()
}

var presets = map[string]func() *Config{
	"kmir": func() *Config {
		return presetConfig(KMIRScenario(), nil)
	},
	"fn": func() *Config {
		return presetConfig(FNScenario(), nil)
	},
	"compare": func() *Config {
		alt := FNScenario()
		return presetConfig(KMIRScenario(), &alt)
	},
}

func presetConfig(main Scenario, alt *Scenario) *Config {
	return &Config{
		Scenario:    main,
		Integrator:  DefaultIntegrator,
		LogLevel:    DefaultLogLevel,
		Integration: dynamo.DefaultConfig(),
		Alt:         alt,
	}
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
