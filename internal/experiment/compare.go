package experiment

import (
	"context"

	"github.com/labstack/gommon/log"

	"github.com/san-kum/springlab/internal/config"
	"github.com/san-kum/springlab/internal/integrators"
	"github.com/san-kum/springlab/internal/logging"
	"github.com/san-kum/springlab/internal/sim"
)

type Comparison struct {
	Integrator string
	Result     *sim.Result
}

// Compare runs the same configuration once per named integrator, all at
// once. An empty list compares every registered integrator.
func Compare(ctx context.Context, cfg *config.Config, names []string, logger *log.Logger) ([]Comparison, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	if len(names) == 0 {
		names = integrators.Names()
	}

	reg := NewRegistry()
	jobs := make([]sim.Job, 0, len(names))
	for _, name := range names {
		c := *cfg
		c.Run.Integrator = name
		engine, err := c.NewEngine()
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, sim.Job{
			Engine:  engine,
			Config:  sim.RunConfig{Frame: c.FrameInterval(), Duration: c.Run.Duration},
			Metrics: reg.DefaultMetrics(),
		})
	}

	logger.Debugf("comparing %d integrators", len(jobs))
	results, err := sim.NewEnsemble(jobs...).Run(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Comparison, len(names))
	for i, name := range names {
		out[i] = Comparison{Integrator: name, Result: results[i]}
	}
	return out, nil
}
