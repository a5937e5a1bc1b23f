package sim_test

import (
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/habersim/internal/catalyst"
	"github.com/san-kum/habersim/internal/dynamo"
	"github.com/san-kum/habersim/internal/integrators"
	"github.com/san-kum/habersim/internal/physics"
	"github.com/san-kum/habersim/internal/reactor"
	"github.com/san-kum/habersim/internal/sim"
)

func kmirInstance() *reactor.Instance {
	inst, err := reactor.NewBuilder(200, catalyst.KMIR).
		AddBed(713, 10, 727, -2.691122).
		AddBed(673, 7.5, 727, -2.708).
		Build()
	Expect(err).NotTo(HaveOccurred())
	return inst
}

func fnInstance() *reactor.Instance {
	inst, err := reactor.NewBuilder(100, catalyst.FN).
		AddBed(643, 30, 727, -2.691122).
		AddBed(623, 15, 727, -2.708).
		Build()
	Expect(err).NotTo(HaveOccurred())
	return inst
}

type recorder struct {
	mu     sync.Mutex
	events []sim.BedEvent
}

func (r *recorder) OnBed(ev sim.BedEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// failing fails every integration with a fixed error.
type failing struct{ err error }

func (f failing) Integrate(context.Context, dynamo.System, float64, dynamo.State, dynamo.Config) (*dynamo.Trajectory, error) {
	return nil, f.err
}

var _ = Describe("Runner", func() {
	var (
		ctx  context.Context
		inst *reactor.Instance
		rec  *recorder
	)

	BeforeEach(func() {
		ctx = context.Background()
		inst = kmirInstance()
		rec = &recorder{}
	})

	Context("with the KMIR two-bed case study", func() {
		BeforeEach(func() {
			r := sim.New(integrators.NewRK45(), dynamo.DefaultConfig(), sim.WithObserver(rec))
			Expect(r.Run(ctx, inst)).To(Succeed())
		})

		It("stores one result per bed", func() {
			Expect(inst.BedCount()).To(Equal(2))
			Expect(inst.Results()).To(HaveLen(2))
			Expect(inst.Complete()).To(BeTrue())
		})

		It("reports a yield strictly between zero and one", func() {
			s, err := inst.Summary()
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Yield).To(BeNumerically(">", 0))
			Expect(s.Yield).To(BeNumerically("<", 1))
			Expect(s.BedLengths).To(HaveLen(2))
			Expect(s.TotalLength).To(BeNumerically("~", s.BedLengths[0]+s.BedLengths[1], 1e-12))
		})

		It("keeps the temperature inside the bed limits", func() {
			tr := inst.TemperatureRange()
			Expect(tr.Min).To(BeNumerically("<", 440))
			Expect(tr.Max).To(BeNumerically("<=", 727-273))
		})

		It("stops both beds early on the ammonia threshold", func() {
			Expect(rec.events).To(HaveLen(2))
			for _, ev := range rec.events {
				Expect(ev.Stopped).To(BeTrue())
				Expect(ev.End).To(BeNumerically("<", ev.Start+25))
				Expect(ev.Stats.Accepted).To(BeNumerically(">", 0))
			}
			Expect(rec.events[1].Start).To(Equal(rec.events[0].End))
		})

		It("restarts every bed at its own inlet temperature", func() {
			for i, bed := range inst.Beds() {
				r, err := inst.Result(i)
				Expect(err).NotTo(HaveOccurred())
				Expect(r.Y[0][physics.Temp]).To(Equal(bed.TStart))
			}
		})

		It("carries the composition across the bed boundary", func() {
			r0, _ := inst.Result(0)
			r1, _ := inst.Result(1)
			_, outlet := r0.Last()
			Expect([]float64(r1.Y[0][:physics.Temp])).To(Equal([]float64(outlet[:physics.Temp])))
		})

		It("yields idempotent, normalized series", func() {
			var cols [][]reactor.Point
			for c := physics.N2; c <= physics.CH4; c++ {
				s, err := inst.Series(c, true)
				Expect(err).NotTo(HaveOccurred())
				first := s.Collect()
				again, _ := inst.Series(c, true)
				Expect(again.Collect()).To(Equal(first))
				cols = append(cols, first)
			}
			for i := range cols[0] {
				sum := 0.0
				for c := range cols {
					sum += cols[c][i].Y
				}
				Expect(sum).To(BeNumerically("~", 1.0, 1e-9))
			}
		})

		It("rejects a second run's results", func() {
			x := []float64{30}
			y := []dynamo.State{{1, 1, 1, 1, 1, 700}}
			Expect(inst.AppendResult(2, x, y)).To(MatchError(reactor.ErrResultsExhausted))
			Expect(sim.New(integrators.NewRK45(), dynamo.DefaultConfig()).Run(ctx, inst)).To(Succeed())
			Expect(inst.Results()).To(HaveLen(2))
		})
	})

	It("produces the same outlet with the fixed-step integrator", func() {
		Expect(sim.New(integrators.NewRK45(), dynamo.DefaultConfig()).Run(ctx, inst)).To(Succeed())
		other := kmirInstance()
		Expect(sim.New(integrators.NewRK4(), dynamo.DefaultConfig()).Run(ctx, other)).To(Succeed())

		a, _ := inst.Summary()
		b, _ := other.Summary()
		Expect(b.Yield).To(BeNumerically("~", a.Yield, 5e-3))
	})

	It("propagates solver failures with the bed index", func() {
		boom := errors.New("boom")
		err := sim.New(failing{err: boom}, dynamo.DefaultConfig(), sim.WithObserver(rec)).Run(ctx, inst)
		Expect(err).To(MatchError(boom))
		Expect(err.Error()).To(ContainSubstring("bed 0"))
		Expect(inst.ResultCount()).To(Equal(0))
		Expect(rec.events).To(BeEmpty())
	})

	It("stops on a step ceiling", func() {
		cfg := dynamo.DefaultConfig()
		cfg.MaxSteps = 5
		err := sim.New(integrators.NewRK45(), cfg).Run(ctx, inst)
		Expect(errors.Is(err, dynamo.ErrMaxSteps)).To(BeTrue())

		var serr *dynamo.SimulationError
		Expect(errors.As(err, &serr)).To(BeTrue())
		Expect(serr.Step).To(Equal(5))
	})

	It("honors cancellation", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := sim.New(integrators.NewRK45(), dynamo.DefaultConfig()).Run(cctx, inst)
		Expect(errors.Is(err, dynamo.ErrContextCanceled)).To(BeTrue())
	})

	It("rejects an invalid integration config", func() {
		cfg := dynamo.DefaultConfig()
		cfg.OutputSteps = 0
		Expect(sim.New(integrators.NewRK45(), cfg).Run(ctx, inst)).NotTo(Succeed())
	})
})

var _ = Describe("Compare", func() {
	newRK45 := func() dynamo.Integrator { return integrators.NewRK45() }

	It("simulates both scenarios", func() {
		main, alt := kmirInstance(), fnInstance()
		rec := &recorder{}

		Expect(sim.Compare(context.Background(), newRK45, dynamo.DefaultConfig(), main, alt, sim.WithObserver(rec))).To(Succeed())
		Expect(main.Complete()).To(BeTrue())
		Expect(alt.Complete()).To(BeTrue())
		Expect(rec.events).To(HaveLen(4))

		ms, _ := main.Summary()
		as, _ := alt.Summary()
		Expect(ms.Yield).NotTo(Equal(as.Yield))
	})

	It("accepts a missing alt scenario", func() {
		main := kmirInstance()
		Expect(sim.Compare(context.Background(), newRK45, dynamo.DefaultConfig(), main, nil)).To(Succeed())
		Expect(main.Complete()).To(BeTrue())
	})

	It("returns the first failure", func() {
		boom := errors.New("boom")
		fail := func() dynamo.Integrator { return failing{err: boom} }
		err := sim.Compare(context.Background(), fail, dynamo.DefaultConfig(), kmirInstance(), fnInstance())
		Expect(err).To(MatchError(boom))
	})
})
