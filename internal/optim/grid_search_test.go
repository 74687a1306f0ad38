package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/springlab/internal/config"
	"github.com/san-kum/springlab/internal/dynamo"
	"github.com/san-kum/springlab/internal/physics"
)

func TestParseAxis(t *testing.T) {
	a, err := ParseAxis("damping=0:10:5")
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 2.5, 5, 7.5, 10}
	if a.Param != "damping" || len(a.Values) != len(want) {
		t.Fatalf("axis = %+v", a)
	}
	for i := range want {
		if a.Values[i] != want[i] {
			t.Errorf("value %d = %f, want %f", i, a.Values[i], want[i])
		}
	}

	for _, bad := range []string{"damping", "damping=1:2", "damping=a:2:3", "damping=2:1:3", "damping=1:2:0"} {
		if _, err := ParseAxis(bad); !errors.Is(err, dynamo.ErrInvalidConfig) {
			t.Errorf("ParseAxis(%q) = %v, want ErrInvalidConfig", bad, err)
		}
	}
}

func TestGridSearch_FastestSettlingNearCritical(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Run.Duration = 10

	axis, err := ParseAxis("damping=1:13:13")
	if err != nil {
		t.Fatal(err)
	}
	best, err := NewGridSearch(axis).Search(context.Background(), cfg, Metric("settling_time"))
	if err != nil {
		t.Fatal(err)
	}
	if best.Evaluated != 13 {
		t.Errorf("evaluated = %d", best.Evaluated)
	}

	// critical damping for m=1 k=10 is 2√10 ≈ 6.32
	c := best.Params["damping"]
	critical := physics.CriticalDamping(1, 10)
	if math.Abs(c-critical) > 2.5 {
		t.Errorf("best damping = %f, want near %f", c, critical)
	}
	if best.Score <= 0 || best.Score > 3 {
		t.Errorf("best settling time = %f", best.Score)
	}
}

func TestGridSearch_Errors(t *testing.T) {
	cfg := config.DefaultConfig()
	if _, err := NewGridSearch().Search(context.Background(), cfg, Metric("energy")); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("empty grid: %v", err)
	}

	bad := NewGridSearch(Axis{Param: "length", Values: []float64{1}})
	if _, err := bad.Search(context.Background(), cfg, Metric("energy")); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("unknown param: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	axis := Axis{Param: "mass", Values: []float64{1, 2}}
	if _, err := NewGridSearch(axis).Search(ctx, cfg, Metric("energy")); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled: %v", err)
	}
}

func TestGridSearch_AllRejected(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Run.Duration = 1
	axis := Axis{Param: "damping", Values: []float64{0}}
	best, err := NewGridSearch(axis).Search(context.Background(), cfg, Metric("settling_time"))
	if err == nil {
		t.Fatal("expected error when no point settles")
	}
	if best.Rejected != 1 {
		t.Errorf("rejected = %d", best.Rejected)
	}
}
