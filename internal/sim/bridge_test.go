package sim

import (
	"testing"
	"time"

	"github.com/san-kum/springlab/internal/dynamo"
)

func snap(t float64) Snapshot {
	return Snapshot{State: dynamo.State{Time: t}}
}

func TestBridge_OfferThrottles(t *testing.T) {
	b := NewBridge(DefaultPublishInterval)
	built := 0
	build := func() Snapshot { built++; return snap(float64(built)) }

	tests := []struct {
		at     time.Duration
		active bool
		want   bool
	}{
		{0, true, true},
		{16 * time.Millisecond, true, false},
		{31 * time.Millisecond, true, false},
		{32 * time.Millisecond, true, true},
		{80 * time.Millisecond, false, false},
		{96 * time.Millisecond, true, true},
	}
	for _, tt := range tests {
		if got := b.Offer(epoch.Add(tt.at), tt.active, build); got != tt.want {
			t.Errorf("Offer at %s active=%v = %v, want %v", tt.at, tt.active, got, tt.want)
		}
	}
	if built != 3 {
		t.Errorf("build called %d times, want 3", built)
	}
}

func TestBridge_SubscribeGetsLatestOnly(t *testing.T) {
	b := NewBridge(0)
	b.Publish(snap(1))

	ch, cancel := b.Subscribe()
	defer cancel()

	if got := <-ch; got.State.Time != 1 {
		t.Fatalf("initial delivery = %v, want t=1", got.State.Time)
	}

	for i := 2; i <= 10; i++ {
		b.Publish(snap(float64(i)))
	}
	if got := <-ch; got.State.Time != 10 {
		t.Errorf("slow subscriber got t=%v, want latest t=10", got.State.Time)
	}
	select {
	case s := <-ch:
		t.Errorf("unexpected extra snapshot %v", s.State.Time)
	default:
	}
}

func TestBridge_CancelClosesChannel(t *testing.T) {
	b := NewBridge(0)
	ch, cancel := b.Subscribe()
	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after cancel")
	}
	b.Publish(snap(1))
}

func TestBridge_CloseEndsSubscriptions(t *testing.T) {
	b := NewBridge(0)
	ch, cancel := b.Subscribe()
	defer cancel()

	b.Close()
	if _, ok := <-ch; ok {
		t.Error("channel should be closed by Close")
	}

	late, _ := b.Subscribe()
	if _, ok := <-late; ok {
		t.Error("subscription after Close should be closed")
	}
	b.Publish(snap(2))
	if got, _ := b.Latest(); got.State.Time == 2 {
		t.Error("publish after Close should be dropped")
	}
}
