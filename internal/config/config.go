package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/habersim/internal/catalyst"
	"github.com/san-kum/habersim/internal/dynamo"
	"github.com/san-kum/habersim/internal/logging"
	"github.com/san-kum/habersim/internal/reactor"
)

const (
	IntegratorRK45 = "rk45"
	IntegratorRK4  = "rk4"

	DefaultIntegrator = IntegratorRK45
	DefaultLogLevel   = "info"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Scenario is one reactor to simulate: catalyst, pressure (atm) and the
// ordered bed list.
type Scenario struct {
	Catalyst catalyst.Catalyst  `yaml:"catalyst" json:"catalyst"`
	Pressure float64            `yaml:"pressure" json:"pressure"`
	Beds     []reactor.BedSetup `yaml:"beds" json:"beds"`
}

type Config struct {
	Scenario    `yaml:",inline"`
	Integrator  string        `yaml:"integrator" json:"integrator"`
	LogLevel    string        `yaml:"log_level" json:"log_level"`
	Integration dynamo.Config `yaml:"integration" json:"integration"`
	Alt         *Scenario     `yaml:"alt,omitempty" json:"alt,omitempty"`
}

// DefaultConfig is the KMIR two-bed case study.
func DefaultConfig() *Config {
	return &Config{
		Scenario:    KMIRScenario(),
		Integrator:  DefaultIntegrator,
		LogLevel:    DefaultLogLevel,
		Integration: dynamo.DefaultConfig(),
	}
}

// Load reads a YAML file on top of DefaultConfig. A file that lists beds
// replaces the default beds entirely.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Beds = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(cfg.Beds) == 0 {
		cfg.Beds = DefaultConfig().Beds
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Scenario.Validate(); err != nil {
		return err
	}
	if c.Alt != nil {
		if err := c.Alt.Validate(); err != nil {
			return fmt.Errorf("alt: %w", err)
		}
	}
	switch c.Integrator {
	case IntegratorRK45, IntegratorRK4:
	default:
		return fmt.Errorf("%w: unknown integrator %q", ErrInvalidConfig, c.Integrator)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.Integration.Validate(); err != nil {
		return fmt.Errorf("%w: integration: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Validate applies the sanity checks the reactor builder leaves to its
// callers.
func (s Scenario) Validate() error {
	if _, err := s.Catalyst.MarshalText(); err != nil {
		return err
	}
	if s.Pressure <= 0 {
		return fmt.Errorf("%w: pressure must be positive, got %g", ErrInvalidConfig, s.Pressure)
	}
	if len(s.Beds) == 0 {
		return reactor.ErrEmptyBedList
	}
	for i, b := range s.Beds {
		if b.TStart <= 0 || b.TMax <= 0 {
			return fmt.Errorf("%w: bed %d: temperatures must be positive kelvin", ErrInvalidConfig, i)
		}
	}
	return nil
}

// Build assembles a fresh reactor instance for the scenario.
func (s Scenario) Build() (*reactor.Instance, error) {
	b := reactor.NewBuilder(s.Pressure, s.Catalyst)
	for _, bed := range s.Beds {
		b.AddBedSetup(bed)
	}
	return b.Build()
}

func (s Scenario) Clone() Scenario {
	c := s
	c.Beds = append([]reactor.BedSetup(nil), s.Beds...)
	return c
}
