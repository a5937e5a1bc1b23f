package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/habersim/internal/config"
	"github.com/san-kum/habersim/internal/dynamo"
	"github.com/san-kum/habersim/internal/integrators"
)

// Registry maps integrator names to constructors. Every lookup returns a
// fresh integrator since RK4 carries scratch buffers.
type Registry struct {
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.integrators[config.IntegratorRK45] = func() dynamo.Integrator { return integrators.NewRK45() }
	r.integrators[config.IntegratorRK4] = func() dynamo.Integrator { return integrators.NewRK4() }

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, err := r.factory(name)
	if err != nil {
		return nil, err
	}
	return fn(), nil
}

func (r *Registry) factory(name string) (func() dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn, nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
