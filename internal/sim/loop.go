package sim

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/san-kum/springlab/internal/clock"
	"github.com/san-kum/springlab/internal/dynamo"
	"github.com/san-kum/springlab/internal/logging"
)

type command func(e *Engine)

// Loop runs an Engine on its own goroutine. Control methods may be called
// from any goroutine; they are applied in order between frames. The frame
// source is held only while the engine is running or dragged.
type Loop struct {
	engine *Engine
	source FrameSource
	clock  clock.Clock
	log    *log.Logger

	cmds chan command
	done chan struct{}
}

func NewLoop(engine *Engine, source FrameSource, clk clock.Clock, logger *log.Logger) *Loop {
	if clk == nil {
		clk = clock.Real{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Loop{
		engine: engine,
		source: source,
		clock:  clk,
		log:    logger,
		cmds:   make(chan command, 64),
		done:   make(chan struct{}),
	}
}

// Run owns the engine until ctx is cancelled. It always releases the frame
// source and closes every subscription before returning.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	defer l.engine.Bridge().Close()

	var frames <-chan time.Time
	acquired := false

	release := func() {
		if !acquired {
			return
		}
		l.source.Stop()
		acquired = false
		frames = nil
		l.log.Debugf("frame source released at t=%.3f", l.engine.State().Time)
	}
	defer release()

	sync := func() {
		active := l.engine.Active()
		switch {
		case active && !acquired:
			ch, err := l.source.Start()
			if err != nil {
				l.log.Warnf("frame source unavailable: %v", err)
				return
			}
			frames = ch
			acquired = true
			l.engine.Resync()
			l.log.Debugf("frame source acquired in mode %s", l.engine.Mode())
		case !active && acquired:
			release()
		}
	}
	sync()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-l.cmds:
			cmd(l.engine)
			sync()
		case now, ok := <-frames:
			if !ok {
				l.log.Warnf("frame source closed")
				acquired = false
				frames = nil
				continue
			}
			l.engine.Tick(now)
		}
	}
}

func (l *Loop) do(cmd command) error {
	select {
	case <-l.done:
		return dynamo.ErrLoopClosed
	default:
	}
	select {
	case l.cmds <- cmd:
		return nil
	case <-l.done:
		return dynamo.ErrLoopClosed
	}
}

func (l *Loop) Start() error  { return l.do((*Engine).Start) }
func (l *Loop) Stop() error   { return l.do((*Engine).Stop) }
func (l *Loop) Toggle() error { return l.do((*Engine).Toggle) }
func (l *Loop) Reset() error  { return l.do((*Engine).Reset) }

func (l *Loop) SetParams(p dynamo.Params) error {
	return l.do(func(e *Engine) { e.SetParams(p) })
}

func (l *Loop) SetMass(m float64) error {
	return l.do(func(e *Engine) { e.SetMass(m) })
}

func (l *Loop) SetStiffness(k float64) error {
	return l.do(func(e *Engine) { e.SetStiffness(k) })
}

func (l *Loop) SetDamping(c float64) error {
	return l.do(func(e *Engine) { e.SetDamping(c) })
}

// BeginDrag, DragTo and EndDrag stamp pointer events with the loop clock at
// the moment they are reported, not when the loop applies them.
func (l *Loop) BeginDrag() error {
	ts := l.clock.Now()
	return l.do(func(e *Engine) { e.BeginDrag(ts) })
}

func (l *Loop) DragTo(pos float64) error {
	ts := l.clock.Now()
	return l.do(func(e *Engine) { e.DragTo(pos, ts) })
}

func (l *Loop) EndDrag() error { return l.do((*Engine).EndDrag) }

// Snapshot asks the loop for a fresh snapshot, bypassing the bridge throttle.
func (l *Loop) Snapshot() (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	if err := l.do(func(e *Engine) { reply <- e.Snapshot() }); err != nil {
		return Snapshot{}, err
	}
	select {
	case s := <-reply:
		return s, nil
	case <-l.done:
		return Snapshot{}, dynamo.ErrLoopClosed
	}
}

func (l *Loop) Subscribe() (<-chan Snapshot, func()) { return l.engine.Bridge().Subscribe() }

func (l *Loop) Latest() (Snapshot, bool) { return l.engine.Bridge().Latest() }

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} { return l.done }
