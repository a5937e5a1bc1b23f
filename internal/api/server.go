package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/habersim/internal/catalyst"
	"github.com/san-kum/habersim/internal/config"
	"github.com/san-kum/habersim/internal/dynamo"
	"github.com/san-kum/habersim/internal/experiment"
	"github.com/san-kum/habersim/internal/logging"
	"github.com/san-kum/habersim/internal/metrics"
	"github.com/san-kum/habersim/internal/physics"
	"github.com/san-kum/habersim/internal/reactor"
)

// maxBodyBytes bounds a /simulate request.
const maxBodyBytes = 1 << 20

type Options struct {
	Integrator  string
	Integration dynamo.Config
	Timeout     time.Duration
	Logger      *slog.Logger
	Collector   *metrics.Collector
	Gatherer    prometheus.Gatherer
}

// Server answers simulation requests. Every request builds its own reactor
// instances, so requests never share state.
type Server struct {
	opts     Options
	registry *experiment.Registry
	log      *slog.Logger
}

func NewHandler(opts Options) http.Handler {
	if opts.Integrator == "" {
		opts.Integrator = config.DefaultIntegrator
	}
	if opts.Integration == (dynamo.Config{}) {
		opts.Integration = dynamo.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		opts:     opts,
		registry: experiment.NewRegistry(),
		log:      opts.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if opts.Timeout > 0 {
		r.Use(middleware.Timeout(opts.Timeout))
	}

	r.Get("/healthz", s.Health)
	r.Post("/simulate", s.Simulate)
	r.Get("/ranges/{catalyst}", s.Ranges)
	r.Get("/presets", s.ListPresets)
	r.Get("/presets/{name}", s.GetPreset)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))

	return r
}

type SimulateRequest struct {
	Main config.Scenario  `json:"main"`
	Alt  *config.Scenario `json:"alt,omitempty"`
	Axis *config.Axis     `json:"axis,omitempty"`
}

// Series holds [x, y] pairs per curve. Gas curves are mole fractions, the
// temperature is in °C.
type Series struct {
	N2          [][2]float64 `json:"n2"`
	H2          [][2]float64 `json:"h2"`
	NH3         [][2]float64 `json:"nh3"`
	Temperature [][2]float64 `json:"temperature"`
}

type Output struct {
	Summary reactor.Summary `json:"summary"`
	Series  Series          `json:"series"`
}

type SimulateResponse struct {
	Main   Output         `json:"main"`
	Alt    *Output        `json:"alt,omitempty"`
	Ranges reactor.Ranges `json:"ranges"`
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Simulate handles POST /simulate.
func (s *Server) Simulate(w http.ResponseWriter, r *http.Request) {
	var body SimulateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		s.log.Warn("Simulate: invalid request body", "error", err)
		return
	}

	cfg := &config.Config{
		Scenario:    body.Main,
		Alt:         body.Alt,
		Integrator:  s.opts.Integrator,
		LogLevel:    config.DefaultLogLevel,
		Integration: s.opts.Integration,
	}
	exp := experiment.New(cfg, s.registry)
	exp.SetLogger(s.log.With("request_id", middleware.GetReqID(r.Context())))
	if s.opts.Collector != nil {
		exp.AddObserver(s.opts.Collector)
	}

	out, err := exp.Run(r.Context())
	if s.opts.Collector != nil {
		s.opts.Collector.RunFinished(err)
	}
	if err != nil && r.Context().Err() != nil {
		// the timeout middleware or the departed client owns the response
		s.log.Warn("Simulate: request context done", "error", err)
		return
	}
	if isClientError(err) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		s.log.Warn("Simulate: invalid scenario", "error", err)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Simulation failed: %v", err), http.StatusInternalServerError)
		s.log.Error("Simulate failed", "error", err)
		return
	}

	resp := SimulateResponse{Ranges: out.Ranges()}
	if body.Axis != nil {
		resp.Ranges = body.Axis.Ranges()
	}
	if resp.Main, err = output(out.Main); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if out.Alt != nil {
		alt, err := output(out.Alt)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		resp.Alt = &alt
	}

	writeJSON(w, http.StatusOK, resp)
}

func output(inst *reactor.Instance) (Output, error) {
	var o Output
	var err error
	if o.Summary, err = inst.Summary(); err != nil {
		return o, err
	}

	curves := []struct {
		dst       *[][2]float64
		component int
	}{
		{&o.Series.N2, physics.N2},
		{&o.Series.H2, physics.H2},
		{&o.Series.NH3, physics.NH3},
		{&o.Series.Temperature, physics.Temp},
	}
	for _, c := range curves {
		s, err := inst.Series(c.component, true)
		if err != nil {
			return o, err
		}
		pts := make([][2]float64, 0, s.Len())
		for p, ok := s.Next(); ok; p, ok = s.Next() {
			pts = append(pts, [2]float64{p.X, p.Y})
		}
		*c.dst = pts
	}
	return o, nil
}

// Ranges handles GET /ranges/{catalyst}.
func (s *Server) Ranges(w http.ResponseWriter, r *http.Request) {
	cat, err := catalyst.Parse(chi.URLParam(r, "catalyst"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, config.Ranges(cat))
}

func (s *Server) ListPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, config.ListPresets())
}

func (s *Server) GetPreset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	cfg := config.GetPreset(name)
	if cfg == nil {
		http.Error(w, fmt.Sprintf("unknown preset %q", name), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// isClientError reports whether err stems from a bad scenario rather than
// a solver failure.
func isClientError(err error) bool {
	return errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, reactor.ErrEmptyBedList) ||
		errors.Is(err, catalyst.ErrUnknownCatalyst)
}
