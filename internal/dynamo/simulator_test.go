package dynamo_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lorenztrail/internal/dynamo"
)

var _ = Describe("Simulator", func() {
	origin := dynamo.Vec3{X: 0.01}

	Describe("construction", func() {
		It("pre-fills every trajectory with its initial condition", func() {
			initial := []dynamo.Vec3{origin, {X: 1, Y: 2, Z: 3}}
			sim, err := dynamo.New("Lorenz", initial, 16, 0.01)
			Expect(err).NotTo(HaveOccurred())
			Expect(sim.NumTrajectories()).To(Equal(2))

			for i, x0 := range initial {
				buf := sim.Buffer(i)
				Expect(buf).To(HaveLen(16))
				for _, p := range buf {
					Expect(p).To(Equal(x0))
				}
				Expect(sim.Head(i)).To(Equal(x0))
			}
		})

		It("resolves the Lorenz parameter set", func() {
			sim, err := dynamo.New("Lorenz", []dynamo.Vec3{origin}, 1, 0.01)
			Expect(err).NotTo(HaveOccurred())
			Expect(sim.Params()).To(Equal(dynamo.Params{Rho: 28, Sigma: 10, Beta: 8.0 / 3.0}))
			Expect(sim.ParameterSet()).To(Equal("Lorenz"))
		})

		It("rejects unregistered parameter sets", func() {
			sim, err := dynamo.New("DoesNotExist", []dynamo.Vec3{origin}, 10, 0.01)
			Expect(sim).To(BeNil())
			Expect(errors.Is(err, dynamo.ErrUnknownParameterSet)).To(BeTrue())

			var cfgErr *dynamo.ConfigError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
			Expect(cfgErr.Field).To(Equal("parameter_set"))
		})

		DescribeTable("rejects invalid configuration",
			func(initial []dynamo.Vec3, maxPoints int, dt float64, field string) {
				sim, err := dynamo.New("Lorenz", initial, maxPoints, dt)
				Expect(sim).To(BeNil())
				Expect(err).To(MatchError(dynamo.ErrInvalidConfiguration))

				var cfgErr *dynamo.ConfigError
				Expect(errors.As(err, &cfgErr)).To(BeTrue())
				Expect(cfgErr.Field).To(Equal(field))
			},
			Entry("zero dt", []dynamo.Vec3{origin}, 10, 0.0, "dt"),
			Entry("negative dt", []dynamo.Vec3{origin}, 10, -0.01, "dt"),
			Entry("NaN dt", []dynamo.Vec3{origin}, 10, math.NaN(), "dt"),
			Entry("zero capacity", []dynamo.Vec3{origin}, 0, 0.01, "max_points"),
			Entry("negative capacity", []dynamo.Vec3{origin}, -3, 0.01, "max_points"),
			Entry("no trajectories", []dynamo.Vec3{}, 10, 0.01, "initial_conditions"),
		)

		It("rejects non-finite explicit coefficients", func() {
			_, err := dynamo.NewWithParams(dynamo.Params{Rho: math.Inf(1), Sigma: 10, Beta: 1}, []dynamo.Vec3{origin}, 10, 0.01)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfiguration))
		})
	})

	Describe("Field and Step", func() {
		var sim *dynamo.Simulator

		BeforeEach(func() {
			var err error
			sim, err = dynamo.New("Lorenz", []dynamo.Vec3{origin}, 8, 0.01)
			Expect(err).NotTo(HaveOccurred())
		})

		It("evaluates the Lorenz derivative", func() {
			d := sim.Field(origin)
			Expect(d.X).To(BeNumerically("~", -0.1, 1e-12))
			Expect(d.Y).To(BeNumerically("~", 0.28, 1e-12))
			Expect(d.Z).To(BeNumerically("~", 0.0, 1e-12))
		})

		It("takes a single forward Euler step", func() {
			next := sim.Step(origin)
			Expect(next.X).To(BeNumerically("~", 0.009, 1e-12))
			Expect(next.Y).To(BeNumerically("~", 0.0028, 1e-12))
			Expect(next.Z).To(BeNumerically("~", 0.0, 1e-12))
		})

		It("does not mutate state", func() {
			before := sim.Buffer(0)
			sim.Field(origin)
			sim.Step(origin)
			Expect(sim.Buffer(0)).To(Equal(before))
			Expect(sim.Steps()).To(BeZero())
		})
	})

	Describe("Advance", func() {
		It("keeps buffer length constant and appends the Euler step of the previous head", func() {
			sim, err := dynamo.New("Lorenz", []dynamo.Vec3{origin, {X: -2, Y: 1, Z: 20}}, 32, 0.01)
			Expect(err).NotTo(HaveOccurred())

			for n := 0; n < 100; n++ {
				prev := []dynamo.Vec3{sim.Head(0), sim.Head(1)}
				sim.Advance()
				for i := range prev {
					Expect(sim.Buffer(i)).To(HaveLen(32))
					Expect(sim.Head(i)).To(Equal(prev[i].Add(sim.Field(prev[i]).Scale(sim.Dt()))))
				}
			}
			Expect(sim.Steps()).To(Equal(100))
			Expect(sim.Time()).To(BeNumerically("~", 1.0, 1e-9))
		})

		It("evicts the oldest points first", func() {
			const maxPoints, k = 5, 3
			sim, err := dynamo.New("Lorenz", []dynamo.Vec3{origin}, maxPoints, 0.01)
			Expect(err).NotTo(HaveOccurred())

			produced := []dynamo.Vec3{}
			p := origin
			for i := 0; i < k; i++ {
				p = sim.Step(p)
				produced = append(produced, p)
			}

			sim.AdvanceN(k)
			buf := sim.Buffer(0)
			for i := 0; i < maxPoints-k; i++ {
				Expect(buf[i]).To(Equal(origin))
			}
			Expect(buf[maxPoints-k:]).To(Equal(produced))
			Expect(buf[maxPoints-1]).To(Equal(produced[k-1]))
		})

		It("holds only the newest point when capacity is one", func() {
			sim, err := dynamo.New("Lorenz", []dynamo.Vec3{origin}, 1, 0.01)
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 10; i++ {
				prev := sim.Head(0)
				sim.Advance()
				Expect(sim.Buffer(0)).To(Equal([]dynamo.Vec3{sim.Step(prev)}))
			}
		})

		It("is bit-for-bit reproducible", func() {
			run := func() [][]dynamo.Vec3 {
				sim, err := dynamo.New("Lorenz", []dynamo.Vec3{origin, {X: 0.01, Y: 1e-5}}, 64, 0.01)
				Expect(err).NotTo(HaveOccurred())
				sim.AdvanceN(2500)
				return [][]dynamo.Vec3{sim.Buffer(0), sim.Buffer(1)}
			}
			Expect(run()).To(Equal(run()))
		})

		It("lets divergent coordinates through without failing", func() {
			sim, err := dynamo.NewWithParams(dynamo.Params{Rho: 28, Sigma: 10, Beta: 8.0 / 3.0}, []dynamo.Vec3{{X: 1e200, Y: -1e200, Z: 1e200}}, 4, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(func() { sim.AdvanceN(5) }).NotTo(Panic())
			Expect(sim.Head(0).IsFinite()).To(BeFalse())
			Expect(sim.Buffer(0)).To(HaveLen(4))
		})

		It("returns buffers the caller may modify freely", func() {
			sim, err := dynamo.New("Lorenz", []dynamo.Vec3{origin}, 4, 0.01)
			Expect(err).NotTo(HaveOccurred())
			buf := sim.Buffer(0)
			buf[3] = dynamo.Vec3{X: 99}
			Expect(sim.Head(0)).To(Equal(origin))
		})
	})

	Describe("Reset", func() {
		It("restores the pre-filled buffers", func() {
			sim, err := dynamo.New("Moon", []dynamo.Vec3{origin}, 10, 0.005)
			Expect(err).NotTo(HaveOccurred())
			fresh := sim.Buffer(0)

			sim.AdvanceN(25)
			Expect(sim.Buffer(0)).NotTo(Equal(fresh))

			sim.Reset()
			Expect(sim.Buffer(0)).To(Equal(fresh))
			Expect(sim.Steps()).To(BeZero())
		})
	})
})

var _ = Describe("ParameterSets", func() {
	It("lists names in sorted order", func() {
		Expect(dynamo.ParameterSetNames()).To(Equal([]string{"Intermittent", "Lorenz", "Moon", "Stable"}))
	})

	It("looks up registered sets", func() {
		p, err := dynamo.LookupParams("Moon")
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Rho).To(Equal(99.96))
	})
})
