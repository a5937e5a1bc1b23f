package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/habersim/internal/sim"
)

const namespace = "habersim"

// Collector exports bed and run statistics to Prometheus. It implements
// sim.Observer and is safe for concurrent use.
type Collector struct {
	beds        *prometheus.CounterVec
	steps       *prometheus.CounterVec
	evaluations prometheus.Counter
	bedLength   prometheus.Histogram
	bedDuration prometheus.Histogram
	runs        *prometheus.CounterVec
}

func NewCollector() *Collector {
	return &Collector{
		beds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "beds_total",
				Help:      "Integrated beds, by whether the ammonia threshold stopped them early.",
			},
			[]string{"stopped"},
		),
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "solver_steps_total",
				Help:      "Solver steps, by outcome.",
			},
			[]string{"outcome"},
		),
		evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solver_evaluations_total",
			Help:      "Right-hand side evaluations of the kinetics model.",
		}),
		bedLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bed_length",
			Help:      "Integrated length of a bed.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 25},
		}),
		bedDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bed_duration_seconds",
			Help:      "Wall-clock time spent integrating a bed.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Simulation requests, by result.",
			},
			[]string{"result"},
		),
	}
}

// Register adds every metric to reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, col := range []prometheus.Collector{c.beds, c.steps, c.evaluations, c.bedLength, c.bedDuration, c.runs} {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) OnBed(ev sim.BedEvent) {
	c.beds.WithLabelValues(strconv.FormatBool(ev.Stopped)).Inc()
	c.steps.WithLabelValues("accepted").Add(float64(ev.Stats.Accepted))
	c.steps.WithLabelValues("rejected").Add(float64(ev.Stats.Rejected))
	c.evaluations.Add(float64(ev.Stats.Evaluations))
	c.bedLength.Observe(ev.End - ev.Start)
	c.bedDuration.Observe(ev.Elapsed.Seconds())
}

// RunFinished counts one simulation request.
func (c *Collector) RunFinished(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.runs.WithLabelValues(result).Inc()
}
