package dynamo

import (
	"context"
	"fmt"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Mul returns the element-wise product of s and other. Components of s
// without a partner in other are copied unchanged.
func (s State) Mul(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] * other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is an ODE right-hand side plus the early-termination predicate
// consulted after every accepted step.
type System interface {
	Derive(x float64, y State) State
	ShouldStop(dy State) bool
}

// Integrator advances a System over [x0, x0+cfg.Span] and returns the
// sampled trajectory.
type Integrator interface {
	Integrate(ctx context.Context, sys System, x0 float64, y0 State, cfg Config) (*Trajectory, error)
}

type Config struct {
	Span        float64 `yaml:"span" json:"span"`
	OutputSteps int     `yaml:"output_steps" json:"output_steps"`
	AbsTol      float64 `yaml:"abs_tol" json:"abs_tol"`
	RelTol      float64 `yaml:"rel_tol" json:"rel_tol"`
	MaxSteps    int     `yaml:"max_steps" json:"max_steps"`
	InitialStep float64 `yaml:"initial_step,omitempty" json:"initial_step,omitempty"`
}

// DefaultConfig matches the reference reactor geometry: a bed domain of 25
// length units sampled at 2000 output points.
func DefaultConfig() Config {
	return Config{
		Span:        25.0,
		OutputSteps: 2000,
		AbsTol:      1e-12,
		RelTol:      1e-16,
		MaxSteps:    100000,
	}
}

func (c Config) OutputStep() float64 {
	return c.Span / float64(c.OutputSteps)
}

func (c Config) Validate() error {
	if c.Span <= 0 {
		return fmt.Errorf("span must be positive, got %g", c.Span)
	}
	if c.OutputSteps <= 0 {
		return fmt.Errorf("output steps must be positive, got %d", c.OutputSteps)
	}
	if c.AbsTol <= 0 || c.RelTol < 0 {
		return fmt.Errorf("tolerances must be positive, got abs=%g rel=%g", c.AbsTol, c.RelTol)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("max steps must be positive, got %d", c.MaxSteps)
	}
	if c.InitialStep < 0 {
		return fmt.Errorf("initial step must not be negative, got %g", c.InitialStep)
	}
	return nil
}

type Stats struct {
	Accepted    int `json:"accepted"`
	Rejected    int `json:"rejected"`
	Evaluations int `json:"evaluations"`
}

// Trajectory holds the output samples of one integration. X is strictly
// increasing and len(X) == len(Y).
type Trajectory struct {
	X       []float64
	Y       []State
	Stopped bool
	Stats   Stats
}

func (t *Trajectory) Len() int { return len(t.X) }

func (t *Trajectory) append(x float64, y State) {
	t.X = append(t.X, x)
	t.Y = append(t.Y, y.Clone())
}

// Emit appends a sample unless x does not advance past the last one.
func (t *Trajectory) Emit(x float64, y State) bool {
	if n := len(t.X); n > 0 && x <= t.X[n-1] {
		return false
	}
	t.append(x, y)
	return true
}

// Last returns the final sample. It must not be called on an empty trajectory.
func (t *Trajectory) Last() (float64, State) {
	n := len(t.X) - 1
	return t.X[n], t.Y[n]
}
