package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/habersim/internal/config"
	"github.com/san-kum/habersim/internal/logging"
	"github.com/san-kum/habersim/internal/reactor"
	"github.com/san-kum/habersim/internal/sim"
)

// Outcome holds the simulated instances of one experiment. Alt is nil when
// the configuration has no comparison scenario.
type Outcome struct {
	Main *reactor.Instance
	Alt  *reactor.Instance
}

// Ranges merges the chart ranges of both scenarios.
func (o *Outcome) Ranges() reactor.Ranges {
	r := o.Main.Ranges()
	if o.Alt != nil {
		r = r.Union(o.Alt.Ranges())
	}
	return r
}

type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	log       *slog.Logger
	observers []sim.Observer
}

func New(cfg *config.Config, registry *Registry) *Experiment {
	return &Experiment{
		cfg:      cfg,
		registry: registry,
		log:      logging.NewNop(),
	}
}

func (e *Experiment) SetLogger(l *slog.Logger) { e.log = l }

func (e *Experiment) AddObserver(o sim.Observer) { e.observers = append(e.observers, o) }

// Run builds the main and alt instances and simulates them. A single
// scenario runs on the calling goroutine; with an alt both run concurrently.
func (e *Experiment) Run(ctx context.Context) (*Outcome, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	newIntegrator, err := e.registry.factory(e.cfg.Integrator)
	if err != nil {
		return nil, err
	}

	out := &Outcome{}
	if out.Main, err = e.cfg.Scenario.Build(); err != nil {
		return nil, fmt.Errorf("main scenario: %w", err)
	}
	if e.cfg.Alt != nil {
		if out.Alt, err = e.cfg.Alt.Build(); err != nil {
			return nil, fmt.Errorf("alt scenario: %w", err)
		}
	}

	opts := []sim.Option{sim.WithLogger(e.log)}
	for _, o := range e.observers {
		opts = append(opts, sim.WithObserver(o))
	}

	if out.Alt == nil {
		r := sim.New(newIntegrator(), e.cfg.Integration, opts...)
		if err := r.Run(ctx, out.Main); err != nil {
			return nil, err
		}
		return out, nil
	}

	if err := sim.Compare(ctx, newIntegrator, e.cfg.Integration, out.Main, out.Alt, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
