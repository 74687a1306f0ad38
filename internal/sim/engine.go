package sim

import (
	"math"
	"time"

	"github.com/san-kum/springlab/internal/dynamo"
	"github.com/san-kum/springlab/internal/history"
	"github.com/san-kum/springlab/internal/integrators"
	"github.com/san-kum/springlab/internal/interact"
	"github.com/san-kum/springlab/internal/physics"
)

const (
	DefaultPublishInterval = 32 * time.Millisecond
	DefaultFrameRate       = 120

	// DragLimit bounds how far a pointer can pull the mass from equilibrium.
	DragLimit = 10.0
)

type Settings struct {
	MaxFrameDelta   time.Duration
	SampleInterval  float64
	HistoryCap      int
	DragThrottle    time.Duration
	DragSmoothing   float64
	PublishInterval time.Duration
	Initial         dynamo.State
}

func DefaultSettings() Settings {
	return Settings{
		MaxFrameDelta:   16 * time.Millisecond,
		SampleInterval:  history.DefaultInterval,
		HistoryCap:      history.DefaultCapacity,
		DragThrottle:    interact.DefaultThrottle,
		DragSmoothing:   interact.DefaultSmoothing,
		PublishInterval: DefaultPublishInterval,
		Initial:         dynamo.DefaultState(),
	}
}

// Snapshot is the read-only view of the oscillator handed to observers.
type Snapshot struct {
	State   dynamo.State
	Mode    dynamo.Mode
	Params  dynamo.Params
	Derived physics.Derived
	History []dynamo.Sample
}

// Engine owns the oscillator state and advances it one frame at a time.
// It is NOT safe for concurrent use; [Loop] serialises access from other
// goroutines.
type Engine struct {
	settings Settings
	stepper  dynamo.Stepper

	state         dynamo.State
	params        dynamo.Params
	initialParams dynamo.Params
	mode          dynamo.Mode
	resume        dynamo.Mode

	sampler *history.Sampler
	drag    *interact.Handler
	bridge  *Bridge

	lastFrame time.Time
	frames    uint64
}

func New(stepper dynamo.Stepper, params dynamo.Params, settings Settings) *Engine {
	if stepper == nil {
		stepper = integrators.NewSemiImplicit()
	}
	params = params.Bounded()
	if !settings.Initial.IsValid() {
		settings.Initial = dynamo.DefaultState()
	}

	e := &Engine{
		settings:      settings,
		stepper:       stepper,
		state:         settings.Initial,
		params:        params,
		initialParams: params,
		sampler:       history.NewSampler(settings.SampleInterval, settings.HistoryCap),
		drag:          interact.NewHandler(settings.DragThrottle, settings.DragSmoothing),
		bridge:        NewBridge(settings.PublishInterval),
	}
	e.publish()
	return e
}

// Tick advances the engine to the frame timestamp now. The first frame after
// construction, reset or [Engine.Resync] only establishes the time base.
func (e *Engine) Tick(now time.Time) {
	dt := 0.0
	if !e.lastFrame.IsZero() {
		dt = now.Sub(e.lastFrame).Seconds()
	}
	e.lastFrame = now
	e.frames++

	dt = integrators.ClampDelta(dt, e.settings.MaxFrameDelta.Seconds())

	switch e.mode {
	case dynamo.Running:
		e.state = e.stepper.Step(e.state, e.params, dt)
		e.sampler.Observe(e.state.Time, e.state.Position)
	case dynamo.Dragging:
		// A held pointer sends no moves; the estimate decays to zero.
		if v, ok := e.drag.Move(e.state.Position, now); ok {
			e.state.Velocity = v
		}
	}

	e.bridge.Offer(now, e.Active(), e.Snapshot)
}

// Resync drops the frame time base so the next Tick does not integrate the
// gap since the last frame.
func (e *Engine) Resync() { e.lastFrame = time.Time{} }

func (e *Engine) Start() {
	if e.mode == dynamo.Dragging {
		e.resume = dynamo.Running
	} else {
		e.mode = dynamo.Running
	}
	e.publish()
}

func (e *Engine) Stop() {
	if e.mode == dynamo.Dragging {
		e.resume = dynamo.Idle
	} else {
		e.mode = dynamo.Idle
	}
	e.publish()
}

// Toggle starts an idle oscillator and stops a running one.
func (e *Engine) Toggle() {
	if e.Running() {
		e.Stop()
	} else {
		e.Start()
	}
}

// Reset restores the initial state and parameters, clears the history and
// ends any drag.
func (e *Engine) Reset() {
	e.drag.End()
	e.mode = dynamo.Idle
	e.resume = dynamo.Idle
	e.state = e.settings.Initial
	e.params = e.initialParams
	e.sampler.Reset()
	e.lastFrame = time.Time{}
	e.publish()
}

func (e *Engine) SetParams(p dynamo.Params) {
	e.params = p.Bounded()
	e.publish()
}

func (e *Engine) SetMass(m float64) {
	p := e.params
	p.Mass = m
	e.SetParams(p)
}

func (e *Engine) SetStiffness(k float64) {
	p := e.params
	p.Stiffness = k
	e.SetParams(p)
}

func (e *Engine) SetDamping(c float64) {
	p := e.params
	p.Damping = c
	e.SetParams(p)
}

// BeginDrag hands position control to the pointer. The mass is caught, so
// velocity restarts from zero until the first estimate.
func (e *Engine) BeginDrag(ts time.Time) {
	if e.mode == dynamo.Dragging {
		return
	}
	e.resume = e.mode
	e.mode = dynamo.Dragging
	e.state.Velocity = 0
	e.drag.Begin(e.state.Position, ts)
	e.publish()
}

// DragTo moves the held mass. Velocity follows the throttled estimate.
func (e *Engine) DragTo(pos float64, ts time.Time) {
	if e.mode != dynamo.Dragging || math.IsNaN(pos) {
		return
	}
	pos = math.Max(-DragLimit, math.Min(DragLimit, pos))

	e.state.Position = pos
	if v, ok := e.drag.Move(pos, ts); ok {
		e.state.Velocity = v
	}
}

// EndDrag releases the mass with the last estimated velocity and returns to
// the mode that was active before the drag.
func (e *Engine) EndDrag() {
	if e.mode != dynamo.Dragging {
		return
	}
	e.drag.End()
	e.mode = e.resume
	e.resume = dynamo.Idle
	e.publish()
}

func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		State:   e.state,
		Mode:    e.mode,
		Params:  e.params,
		Derived: physics.Derive(e.state, e.params),
		History: e.sampler.Samples(),
	}
}

func (e *Engine) State() dynamo.State   { return e.state }
func (e *Engine) Params() dynamo.Params { return e.params }
func (e *Engine) Mode() dynamo.Mode     { return e.mode }
func (e *Engine) Running() bool {
	return e.mode == dynamo.Running || (e.mode == dynamo.Dragging && e.resume == dynamo.Running)
}

// Active reports whether the engine needs frames: running or being dragged.
func (e *Engine) Active() bool { return e.mode != dynamo.Idle }

func (e *Engine) History() []dynamo.Sample { return e.sampler.Samples() }
func (e *Engine) Bridge() *Bridge          { return e.bridge }
func (e *Engine) Stepper() dynamo.Stepper  { return e.stepper }
func (e *Engine) Frames() uint64           { return e.frames }

func (e *Engine) publish() { e.bridge.Publish(e.Snapshot()) }
