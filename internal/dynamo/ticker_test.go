package dynamo_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lorenztrail/internal/dynamo"
)

var _ = Describe("Ticker", func() {
	var (
		sim *dynamo.Simulator
		t0  time.Time
	)

	BeforeEach(func() {
		var err error
		sim, err = dynamo.New("Lorenz", []dynamo.Vec3{{X: 0.01}}, 8, 0.01)
		Expect(err).NotTo(HaveOccurred())
		t0 = time.Unix(1700000000, 0)
	})

	It("advances on the first tick", func() {
		tick := dynamo.NewTicker(sim, time.Millisecond, 1)
		Expect(tick.Tick(t0)).To(BeTrue())
		Expect(sim.Steps()).To(Equal(1))
	})

	It("skips frames until strictly more than the interval has elapsed", func() {
		tick := dynamo.NewTicker(sim, time.Millisecond, 1)
		Expect(tick.Tick(t0)).To(BeTrue())

		Expect(tick.Tick(t0.Add(500 * time.Microsecond))).To(BeFalse())
		Expect(tick.Tick(t0.Add(time.Millisecond))).To(BeFalse())
		Expect(sim.Steps()).To(Equal(1))

		Expect(tick.Tick(t0.Add(1100 * time.Microsecond))).To(BeTrue())
		Expect(sim.Steps()).To(Equal(2))
	})

	It("measures the interval from the last advance, not the last frame", func() {
		tick := dynamo.NewTicker(sim, 10*time.Millisecond, 1)
		tick.Tick(t0)
		for i := 1; i <= 10; i++ {
			tick.Tick(t0.Add(time.Duration(i) * time.Millisecond))
		}
		Expect(sim.Steps()).To(Equal(1))
		Expect(tick.Tick(t0.Add(11 * time.Millisecond))).To(BeTrue())
	})

	It("advances numRepeats steps per accepted tick", func() {
		tick := dynamo.NewTicker(sim, 0, 3)
		tick.Tick(t0)
		tick.Tick(t0.Add(time.Nanosecond))
		Expect(sim.Steps()).To(Equal(6))
	})

	It("clamps repeats to at least one", func() {
		tick := dynamo.NewTicker(sim, 0, 0)
		Expect(tick.Repeats()).To(Equal(1))
	})

	It("advances again immediately after Restart", func() {
		tick := dynamo.NewTicker(sim, time.Hour, 1)
		tick.Tick(t0)
		Expect(tick.Tick(t0.Add(time.Second))).To(BeFalse())
		tick.Restart()
		Expect(tick.Tick(t0.Add(time.Second))).To(BeTrue())
	})
})
