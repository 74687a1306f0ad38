package sim

import (
	"math"
	"testing"
	"time"

	"github.com/san-kum/springlab/internal/dynamo"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestEngine() *Engine {
	return New(nil, dynamo.DefaultParams(), DefaultSettings())
}

// frames ticks e n times at the given spacing, starting after from.
func frames(e *Engine, from time.Time, n int, every time.Duration) time.Time {
	now := from
	for i := 0; i < n; i++ {
		now = now.Add(every)
		e.Tick(now)
	}
	return now
}

func TestEngine_IdleDoesNotAdvance(t *testing.T) {
	e := newTestEngine()
	frames(e, epoch, 100, 16*time.Millisecond)

	if got := e.State(); got != dynamo.DefaultState() {
		t.Errorf("idle engine moved: %v", got)
	}
	if len(e.History()) != 0 {
		t.Errorf("idle engine recorded %d samples", len(e.History()))
	}
}

func TestEngine_FirstFrameOnlySetsTimeBase(t *testing.T) {
	e := newTestEngine()
	e.Start()
	e.Tick(epoch.Add(time.Hour))

	if got := e.State(); got.Time != 0 || got.Position != dynamo.DefaultPosition {
		t.Errorf("first frame integrated: %v", got)
	}

	e.Tick(epoch.Add(time.Hour + 16*time.Millisecond))
	if got := e.State().Time; math.Abs(got-0.016) > 1e-12 {
		t.Errorf("time after one frame = %f, want 0.016", got)
	}
}

func TestEngine_LongFrameIsClamped(t *testing.T) {
	e := newTestEngine()
	e.Start()
	e.Tick(epoch)
	e.Tick(epoch.Add(2 * time.Second))

	if got := e.State().Time; math.Abs(got-0.016) > 1e-12 {
		t.Errorf("time after a 2s stall = %f, want 0.016", got)
	}
}

func TestEngine_StopPreservesState(t *testing.T) {
	e := newTestEngine()
	e.Start()
	now := frames(e, epoch, 30, 16*time.Millisecond)
	e.Stop()
	paused := e.State()

	frames(e, now, 30, 16*time.Millisecond)
	if e.State() != paused {
		t.Errorf("state changed while stopped: %v -> %v", paused, e.State())
	}
	if e.Mode() != dynamo.Idle || e.Active() {
		t.Errorf("mode = %s after Stop", e.Mode())
	}
}

func TestEngine_Toggle(t *testing.T) {
	e := newTestEngine()
	e.Toggle()
	if !e.Running() {
		t.Fatal("toggle from idle should start")
	}
	e.Toggle()
	if e.Running() {
		t.Fatal("toggle from running should stop")
	}
}

func TestEngine_ResetRestoresInitialConditions(t *testing.T) {
	e := newTestEngine()
	e.SetParams(dynamo.Params{Mass: 3, Stiffness: 40, Damping: 2})
	e.Start()
	now := frames(e, epoch, 200, 16*time.Millisecond)
	e.BeginDrag(now)

	e.Reset()

	if got := e.State(); got != dynamo.DefaultState() {
		t.Errorf("state after reset = %v", got)
	}
	if got := e.Params(); got != dynamo.DefaultParams() {
		t.Errorf("params after reset = %+v", got)
	}
	if e.Mode() != dynamo.Idle {
		t.Errorf("mode after reset = %s", e.Mode())
	}
	if len(e.History()) != 0 {
		t.Errorf("history after reset has %d samples", len(e.History()))
	}
}

func TestEngine_SetParamsIsBounded(t *testing.T) {
	e := newTestEngine()
	e.SetMass(-1)
	e.SetStiffness(1e9)
	e.SetDamping(math.NaN())

	p := e.Params()
	if p.Mass != dynamo.MinMass || p.Stiffness != dynamo.MaxStiffness || p.Damping != 0 {
		t.Errorf("bounded params = %+v", p)
	}
}

func TestEngine_DragSuspendsIntegration(t *testing.T) {
	e := newTestEngine()
	e.Start()
	now := frames(e, epoch, 10, 16*time.Millisecond)
	before := e.State()

	e.BeginDrag(now)
	if e.Mode() != dynamo.Dragging {
		t.Fatalf("mode = %s, want dragging", e.Mode())
	}
	if e.State().Velocity != 0 {
		t.Errorf("velocity on grab = %f, want 0", e.State().Velocity)
	}

	e.DragTo(0.3, now.Add(20*time.Millisecond))
	frames(e, now, 10, 16*time.Millisecond)

	got := e.State()
	if got.Time != before.Time {
		t.Errorf("simulated time advanced during drag: %f -> %f", before.Time, got.Time)
	}
	if got.Position != 0.3 {
		t.Errorf("position = %f, want 0.3", got.Position)
	}
}

func TestEngine_EndDragResumesPreviousMode(t *testing.T) {
	tests := []struct {
		name    string
		running bool
		want    dynamo.Mode
	}{
		{"from running", true, dynamo.Running},
		{"from idle", false, dynamo.Idle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine()
			if tt.running {
				e.Start()
			}
			e.BeginDrag(epoch)
			e.EndDrag()
			if e.Mode() != tt.want {
				t.Errorf("mode after release = %s, want %s", e.Mode(), tt.want)
			}
		})
	}
}

func TestEngine_StartStopWhileDragging(t *testing.T) {
	e := newTestEngine()
	e.BeginDrag(epoch)
	e.Start()
	if e.Mode() != dynamo.Dragging {
		t.Fatalf("start must not interrupt a drag, mode = %s", e.Mode())
	}
	e.EndDrag()
	if e.Mode() != dynamo.Running {
		t.Errorf("release after start = %s, want running", e.Mode())
	}

	e.BeginDrag(epoch)
	e.Stop()
	e.EndDrag()
	if e.Mode() != dynamo.Idle {
		t.Errorf("release after stop = %s, want idle", e.Mode())
	}
}

func TestEngine_DragIgnoredWhenNotHeld(t *testing.T) {
	e := newTestEngine()
	e.DragTo(5, epoch)
	e.EndDrag()
	if e.State() != dynamo.DefaultState() || e.Mode() != dynamo.Idle {
		t.Errorf("stray pointer events changed the engine: %v %s", e.State(), e.Mode())
	}
}

func TestEngine_DragPositionIsLimited(t *testing.T) {
	e := newTestEngine()
	e.BeginDrag(epoch)
	e.DragTo(math.Inf(1), epoch.Add(time.Second))
	if got := e.State().Position; got != DragLimit {
		t.Errorf("position = %f, want %f", got, DragLimit)
	}
	e.DragTo(math.NaN(), epoch.Add(2*time.Second))
	if got := e.State().Position; got != DragLimit {
		t.Errorf("NaN moved the mass to %f", got)
	}
}

func TestEngine_SnapshotDerived(t *testing.T) {
	e := newTestEngine()
	s := e.Snapshot()
	want := 0.5 * dynamo.DefaultStiffness * dynamo.DefaultPosition * dynamo.DefaultPosition
	if math.Abs(s.Derived.Potential-want) > 1e-12 {
		t.Errorf("potential = %f, want %f", s.Derived.Potential, want)
	}
	if s.Mode != dynamo.Idle || s.Params != dynamo.DefaultParams() {
		t.Errorf("snapshot = %+v", s)
	}
}

func TestEngine_ControlActionsPublishImmediately(t *testing.T) {
	e := newTestEngine()
	base := e.Bridge().Published()

	e.Start()
	e.SetDamping(1)
	e.Reset()

	if got := e.Bridge().Published() - base; got != 3 {
		t.Errorf("published %d snapshots for 3 control actions", got)
	}
	latest, ok := e.Bridge().Latest()
	if !ok || latest.Mode != dynamo.Idle {
		t.Errorf("latest snapshot after reset = %+v", latest)
	}
}

func TestEngine_HeldMassIsReleasedAtRest(t *testing.T) {
	e := newTestEngine()
	e.Start()
	e.BeginDrag(epoch)
	e.DragTo(0.5, epoch.Add(100*time.Millisecond))
	if v := e.State().Velocity; v == 0 {
		t.Fatalf("velocity after fast move = %f, want non-zero", v)
	}

	// no pointer events while the mass is held still
	frames(e, epoch.Add(116*time.Millisecond), 125, 16*time.Millisecond)
	e.EndDrag()

	got := e.State()
	if math.Abs(got.Velocity) > 1e-9 {
		t.Errorf("release velocity after holding still = %f, want 0", got.Velocity)
	}
	if got.Position != 0.5 {
		t.Errorf("release position = %f, want 0.5", got.Position)
	}
	if e.Mode() != dynamo.Running {
		t.Errorf("mode after release = %s, want running", e.Mode())
	}
}
