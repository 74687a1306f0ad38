package integrators

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/san-kum/springlab/internal/dynamo"
)

// Default is the stepper the engine uses unless told otherwise.
const Default = "symplectic"

var factories = map[string]func(subSteps int, maxDelta float64) dynamo.Stepper{
	"symplectic": func(n int, d float64) dynamo.Stepper { return &SemiImplicit{SubSteps: n, MaxDelta: d} },
	"euler":      func(n int, d float64) dynamo.Stepper { return &Euler{SubSteps: n, MaxDelta: d} },
	"rk4":        func(n int, d float64) dynamo.Stepper { return &RK4{SubSteps: n, MaxDelta: d} },
	"verlet":     func(n int, d float64) dynamo.Stepper { return &Verlet{SubSteps: n, MaxDelta: d} },
	"analytic":   func(_ int, d float64) dynamo.Stepper { return &Analytic{MaxDelta: d} },
}

// Lookup builds the named stepper with the default sub-steps and delta clamp.
func Lookup(name string) (dynamo.Stepper, error) {
	return New(name, DefaultSubSteps, DefaultMaxDelta)
}

// New builds the named stepper. Non-positive subSteps fall back to the default.
func New(name string, subSteps int, maxDelta float64) (dynamo.Stepper, error) {
	fn, ok := factories[name]
	if !ok {
		return nil, errors.Wrapf(dynamo.ErrUnknownIntegrator, "%q", name)
	}
	if subSteps <= 0 {
		subSteps = DefaultSubSteps
	}
	return fn(subSteps, maxDelta), nil
}

// Names lists the registered steppers in lexical order.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
