package sim

import (
	"context"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/springlab/internal/dynamo"
	"github.com/san-kum/springlab/internal/physics"
)

const frame = 16 * time.Millisecond

func runFor(e *Engine, seconds float64) *Result {
	res, err := e.Run(context.Background(), RunConfig{Frame: frame, Duration: seconds}, nil)
	Expect(err).NotTo(HaveOccurred())
	return res
}

// upCrossings returns the interpolated times at which position rises through zero.
func upCrossings(states []dynamo.State) []float64 {
	var out []float64
	for i := 1; i < len(states); i++ {
		a, b := states[i-1], states[i]
		if a.Position < 0 && b.Position >= 0 {
			f := -a.Position / (b.Position - a.Position)
			out = append(out, a.Time+f*(b.Time-a.Time))
		}
	}
	return out
}

var _ = Describe("Engine", func() {
	var undamped dynamo.Params

	BeforeEach(func() {
		undamped = dynamo.Params{Mass: 1, Stiffness: 10, Damping: 0}
	})

	Describe("free oscillation", func() {
		It("oscillates with the natural period", func() {
			e := New(nil, undamped, DefaultSettings())
			res := runFor(e, 12)

			ups := upCrossings(res.States)
			Expect(len(ups)).To(BeNumerically(">=", 5))

			want := 2 * math.Pi / math.Sqrt(10)
			for i := 0; i+1 < len(ups); i++ {
				Expect(ups[i+1]-ups[i]).To(BeNumerically("~", want, want*0.01), "period %d", i)
			}
		})

		It("conserves energy without damping", func() {
			e := New(nil, undamped, DefaultSettings())
			res := runFor(e, 10)

			e0 := physics.Energy(res.States[0], undamped)
			for _, s := range res.States {
				Expect(math.Abs(physics.Energy(s, undamped)-e0) / e0).To(BeNumerically("<", 0.01))
			}
		})

		It("loses energy with damping", func() {
			p := dynamo.DefaultParams()
			e := New(nil, p, DefaultSettings())
			res := runFor(e, 10)

			first := physics.Energy(res.States[0], p)
			last := physics.Energy(res.States[len(res.States)-1], p)
			Expect(last).To(BeNumerically("<", first*0.05))
		})
	})

	Describe("history", func() {
		It("keeps at most 500 samples spaced by the sample interval", func() {
			e := New(nil, undamped, DefaultSettings())
			res := runFor(e, 40)

			Expect(res.History).To(HaveLen(500))
			for i := 1; i < len(res.History); i++ {
				gap := res.History[i].T - res.History[i-1].T
				Expect(gap).To(BeNumerically(">=", 0.05-1e-9))
			}
			Expect(res.History[len(res.History)-1].T).To(BeNumerically("~", res.States[len(res.States)-1].Time, 0.07))
		})
	})

	Describe("reset", func() {
		It("returns to the rest displacement with empty history", func() {
			e := New(nil, undamped, DefaultSettings())
			runFor(e, 3)
			Expect(e.History()).NotTo(BeEmpty())

			e.Reset()
			Expect(e.State()).To(Equal(dynamo.DefaultState()))
			Expect(e.History()).To(BeEmpty())
			Expect(e.Mode()).To(Equal(dynamo.Idle))
		})
	})

	Describe("presentation throttle", func() {
		It("publishes at most once per interval while running", func() {
			e := New(nil, undamped, DefaultSettings())
			base := e.Bridge().Published()
			res := runFor(e, 1)

			published := e.Bridge().Published() - base
			// one forced publish for start, then the throttled frames
			Expect(published).To(BeNumerically("<=", 1+uint64(res.Frames)/2+1))
			Expect(published).To(BeNumerically(">=", uint64(1000/32)))
		})

		It("publishes nothing while idle", func() {
			e := New(nil, undamped, DefaultSettings())
			base := e.Bridge().Published()
			frames(e, epoch, 100, frame)
			Expect(e.Bridge().Published()).To(Equal(base))
		})
	})

	Describe("drag release", func() {
		It("throws the mass with the smoothed pointer velocity", func() {
			e := New(nil, undamped, DefaultSettings())
			e.Start()
			e.BeginDrag(epoch)
			for ms := 10; ms <= 500; ms += 10 {
				e.DragTo(float64(ms)/500, epoch.Add(time.Duration(ms)*time.Millisecond))
			}
			e.EndDrag()

			Expect(e.Mode()).To(Equal(dynamo.Running))
			Expect(e.State().Position).To(BeNumerically("~", 1.0, 1e-12))
			Expect(e.State().Velocity).To(BeNumerically("~", 1.6, 1e-9))
		})
	})

	Describe("ensemble", func() {
		It("runs jobs concurrently and keeps their order", func() {
			cfg := RunConfig{Frame: frame, Duration: 2}
			jobs := []Job{
				{Engine: New(nil, dynamo.Params{Mass: 1, Stiffness: 10}, DefaultSettings()), Config: cfg},
				{Engine: New(nil, dynamo.Params{Mass: 1, Stiffness: 10, Damping: 5}, DefaultSettings()), Config: cfg},
			}
			results, err := NewEnsemble(jobs...).Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
			Expect(results[0].Params.Damping).To(Equal(0.0))
			Expect(results[1].Params.Damping).To(Equal(5.0))
			Expect(results[1].EnergyDrift).To(BeNumerically(">", results[0].EnergyDrift))
		})

		It("rejects an invalid run", func() {
			_, err := New(nil, undamped, DefaultSettings()).Run(context.Background(), RunConfig{Frame: 0, Duration: 1}, nil)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})
	})
})
