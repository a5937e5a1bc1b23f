package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/habersim/internal/dynamo"
	"github.com/san-kum/habersim/internal/logging"
	"github.com/san-kum/habersim/internal/physics"
	"github.com/san-kum/habersim/internal/reactor"
)

// Runner drives the bed-by-bed integration of a reactor instance. Beds run
// strictly in order because each one starts from its predecessor's outlet.
type Runner struct {
	integrator dynamo.Integrator
	cfg        dynamo.Config
	log        *slog.Logger
	observers  []Observer
}

func New(integrator dynamo.Integrator, cfg dynamo.Config, opts ...Option) *Runner {
	r := &Runner{
		integrator: integrator,
		cfg:        cfg,
		log:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run integrates every bed of inst that has no result yet. A solver failure
// aborts the run; results of the beds before it stay stored.
func (r *Runner) Run(ctx context.Context, inst *reactor.Instance) error {
	if err := r.cfg.Validate(); err != nil {
		return fmt.Errorf("integration config: %w", err)
	}

	for i := inst.ResultCount(); i < inst.BedCount(); i++ {
		if err := r.runBed(ctx, inst, i); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runBed(ctx context.Context, inst *reactor.Instance, idx int) error {
	in, err := inst.SolverInput(idx)
	if err != nil {
		return err
	}
	r.log.Debug("bed start", "bed", idx, "x0", in.X0, "t_start", in.Y0[physics.Temp])

	start := time.Now()
	traj, err := r.integrator.Integrate(ctx, in.Model, in.X0, in.Y0, r.cfg)
	if err != nil {
		return fmt.Errorf("bed %d: %w", idx, err)
	}
	if err := inst.AppendResult(idx, traj.X, traj.Y); err != nil {
		return fmt.Errorf("bed %d: %w", idx, err)
	}

	end, _ := traj.Last()
	ev := BedEvent{
		Index:   idx,
		Samples: traj.Len(),
		Start:   in.X0,
		End:     end,
		Stopped: traj.Stopped,
		Stats:   traj.Stats,
		Elapsed: time.Since(start),
	}
	r.log.Info("bed done",
		"bed", idx,
		"samples", ev.Samples,
		"stopped", ev.Stopped,
		"accepted", ev.Stats.Accepted,
		"rejected", ev.Stats.Rejected,
	)
	for _, o := range r.observers {
		o.OnBed(ev)
	}
	return nil
}
