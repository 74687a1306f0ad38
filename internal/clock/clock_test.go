package clock

import (
	"testing"
	"time"
)

func TestMock_AdvanceAndSet(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMock(start)

	if !m.Now().Equal(start) {
		t.Errorf("Now() = %v, want %v", m.Now(), start)
	}

	got := m.Advance(16 * time.Millisecond)
	if want := start.Add(16 * time.Millisecond); !got.Equal(want) || !m.Now().Equal(want) {
		t.Errorf("Advance() = %v, want %v", got, want)
	}

	later := start.Add(time.Hour)
	m.Set(later)
	if !m.Now().Equal(later) {
		t.Errorf("after Set, Now() = %v, want %v", m.Now(), later)
	}
}

func TestReal_IsMonotonic(t *testing.T) {
	var c Clock = Real{}
	a := c.Now()
	b := c.Now()
	if b.Before(a) {
		t.Errorf("real clock went backwards: %v then %v", a, b)
	}
}
