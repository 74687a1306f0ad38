package experiment

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/san-kum/springlab/internal/dynamo"
	"github.com/san-kum/springlab/internal/integrators"
	"github.com/san-kum/springlab/internal/metrics"
)

// SettleThreshold is the band around equilibrium used by the settling metric.
const SettleThreshold = 0.01

// Registry names the steppers and metrics a run can be built from.
type Registry struct {
	metrics map[string]func() dynamo.Metric
}

func NewRegistry() *Registry {
	r := &Registry{metrics: make(map[string]func() dynamo.Metric)}

	r.metrics["energy"] = func() dynamo.Metric { return metrics.NewEnergy() }
	r.metrics["energy_drift"] = func() dynamo.Metric { return metrics.NewEnergyDrift() }
	r.metrics["energy_growth"] = func() dynamo.Metric { return metrics.NewEnergyGrowth(1e-6) }
	r.metrics["amplitude"] = func() dynamo.Metric { return metrics.NewAmplitude() }
	r.metrics["stability"] = func() dynamo.Metric { return metrics.NewStability(dynamo.DefaultPosition) }
	r.metrics["settling_time"] = func() dynamo.Metric { return metrics.NewSettling(SettleThreshold) }

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Stepper, error) {
	return integrators.Lookup(name)
}

func (r *Registry) ListIntegrators() []string { return integrators.Names() }

func (r *Registry) GetMetric(name string) (dynamo.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, errors.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics() []dynamo.Metric {
	names := r.ListMetrics()
	out := make([]dynamo.Metric, len(names))
	for i, name := range names {
		out[i] = r.metrics[name]()
	}
	return out
}
