package optim

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/springlab/internal/config"
	"github.com/san-kum/springlab/internal/dynamo"
	"github.com/san-kum/springlab/internal/experiment"
	"github.com/san-kum/springlab/internal/sim"
)

// Objective scores a run; lower is better. Runs it rejects are skipped.
type Objective func(*sim.Result) (float64, bool)

// Metric scores runs by a recorded metric. Negative values mark a run that
// never reached the measured condition and are rejected.
func Metric(name string) Objective {
	return func(r *sim.Result) (float64, bool) {
		v, ok := r.Metrics[name]
		if !ok || v < 0 || math.IsNaN(v) {
			return 0, false
		}
		return v, true
	}
}

// Axis is one searched parameter and the values it takes.
type Axis struct {
	Param  string
	Values []float64
}

// ParseAxis reads "name=min:max:n" into n evenly spaced values.
func ParseAxis(s string) (Axis, error) {
	name, rng, ok := strings.Cut(s, "=")
	parts := strings.Split(rng, ":")
	if !ok || len(parts) != 3 {
		return Axis{}, errors.Wrapf(dynamo.ErrInvalidConfig, "axis %q: want name=min:max:n", s)
	}
	lo, err1 := strconv.ParseFloat(parts[0], 64)
	hi, err2 := strconv.ParseFloat(parts[1], 64)
	n, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil || n < 1 || hi < lo {
		return Axis{}, errors.Wrapf(dynamo.ErrInvalidConfig, "axis %q: bad range", s)
	}
	if n == 1 {
		return Axis{Param: name, Values: []float64{lo}}, nil
	}
	return Axis{Param: name, Values: floats.Span(make([]float64, n), lo, hi)}, nil
}

type GridSearch struct {
	axes []Axis
}

func NewGridSearch(axes ...Axis) *GridSearch {
	return &GridSearch{axes: axes}
}

// Best is the winning grid point.
type Best struct {
	Params    map[string]float64
	Score     float64
	Evaluated int
	Rejected  int
}

// Search runs one experiment per grid point over base and keeps the point
// with the lowest objective score.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, objective Objective) (*Best, error) {
	if len(g.axes) == 0 {
		return nil, errors.Wrap(dynamo.ErrInvalidConfig, "grid search needs at least one axis")
	}
	best := &Best{Score: math.Inf(1)}
	if err := g.searchRecursive(ctx, 0, *base, make(map[string]float64), objective, best); err != nil {
		return nil, err
	}
	if best.Params == nil {
		return best, errors.New("no grid point satisfied the objective")
	}
	return best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	cfg config.Config,
	current map[string]float64,
	objective Objective,
	best *Best,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.axes) {
		c := cfg
		result, err := experiment.New(&c, nil).Run(ctx)
		if err != nil {
			return err
		}
		best.Evaluated++

		score, ok := objective(result)
		if !ok {
			best.Rejected++
			return nil
		}
		if score < best.Score {
			best.Score = score
			best.Params = make(map[string]float64, len(current))
			for k, v := range current {
				best.Params[k] = v
			}
		}
		return nil
	}

	axis := g.axes[depth]
	for _, val := range axis.Values {
		next := cfg
		if err := next.SetParam(axis.Param, val); err != nil {
			return err
		}
		current[axis.Param] = val
		if err := g.searchRecursive(ctx, depth+1, next, current, objective, best); err != nil {
			return err
		}
	}
	delete(current, axis.Param)
	return nil
}

// Names lists the parameters of a result in a stable order.
func (b *Best) Names() []string {
	names := make([]string, 0, len(b.Params))
	for name := range b.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
