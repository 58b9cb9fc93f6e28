package sim_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
)

type setup struct {
	field *gravity.Field
	sys   *body.System
	sim   *sim.Simulator
	cfg   sim.Config
}

func fromPreset(name string) setup {
	c := config.GetPreset(name)
	Expect(c).NotTo(BeNil())
	sys, err := c.System()
	Expect(err).NotTo(HaveOccurred())

	field := gravity.NewField(c.Masses, c.G)
	field.Softening = c.Softening
	integ, err := integrators.Lookup(c.Integrator, c.Dim())
	Expect(err).NotTo(HaveOccurred())

	return setup{
		field: field,
		sys:   sys,
		sim:   sim.New(field.Derivative(), integ),
		cfg:   sim.Config{TStart: c.TStart, Dt: c.Dt(), Steps: c.Steps},
	}
}

func returnDistance(tr *sim.Trajectory, i int) float64 {
	p := tr.Positions[i]
	return floats.Distance(p[0], p[len(p)-1], 2)
}

type countingObserver struct{ steps []int }

func (o *countingObserver) OnStep(step int, u dynamo.State, t float64) {
	o.steps = append(o.steps, step)
}

var _ = Describe("Simulator", func() {
	ctx := context.Background()

	Describe("closed orbits", func() {
		It("brings the Earth back after one year", func() {
			s := fromPreset("earth_sun")
			res, err := s.sim.Run(ctx, s.sys, s.cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.StepsTaken).To(Equal(365))
			Expect(res.Trajectory.Times[res.Trajectory.Len()-1]).To(BeNumerically("~", 1.0, 1e-12))
			Expect(returnDistance(res.Trajectory, 1)).To(BeNumerically("<", 1e-3))
		})

		It("closes the circular binary after one period", func() {
			s := fromPreset("circular_binary")
			res, err := s.sim.Run(ctx, s.sys, s.cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(returnDistance(res.Trajectory, 0)).To(BeNumerically("<", 1e-6))
			Expect(returnDistance(res.Trajectory, 1)).To(BeNumerically("<", 1e-6))
		})

		It("retraces the figure eight", func() {
			s := fromPreset("figure_eight")
			res, err := s.sim.Run(ctx, s.sys, s.cfg)
			Expect(err).NotTo(HaveOccurred())
			for i := 0; i < 3; i++ {
				Expect(returnDistance(res.Trajectory, i)).To(BeNumerically("<", 1e-3))
			}
		})
	})

	It("runs the equal-mass binary for 1000 steps without a collision", func() {
		s := fromPreset("binary")
		drift := metrics.NewEnergyDrift(s.field)
		closest := metrics.NewMinSeparation(2)
		s.sim.AddMetric(drift)
		s.sim.AddMetric(closest)

		res, err := s.sim.Run(ctx, s.sys, s.cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.StepsTaken).To(Equal(1000))
		Expect(res.Trajectory.Len()).To(Equal(1001))

		// The bodies start at periapsis of a zero-energy orbit.
		Expect(res.Metrics["min_separation"]).To(BeNumerically("~", 1.0, 1e-9))
		Expect(res.Metrics["energy_drift"]).To(BeNumerically("<", 1e-6))
	})

	It("conserves energy and momentum of an isolated system", func() {
		s := fromPreset("inner_solar_system")
		s.sim.AddMetric(metrics.NewEnergyDrift(s.field))
		s.sim.AddMetric(metrics.NewMomentumDrift(s.field))
		s.sim.AddMetric(metrics.NewAngularMomentumDrift(s.field))

		res, err := s.sim.Run(ctx, s.sys, s.cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Metrics["energy_drift"]).To(BeNumerically("<", 0.01))
		Expect(res.Metrics["momentum_drift"]).To(BeNumerically("<", 0.01))
		Expect(res.Metrics["angular_momentum_drift"]).To(BeNumerically("<", 0.01))
	})

	It("keeps the bodies in sync with the state", func() {
		s := fromPreset("circular_binary")
		res, err := s.sim.Run(ctx, s.sys, s.cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect([]float64(body.BodiesToVector(s.sys))).To(Equal([]float64(res.Final)))
	})

	It("records the initial condition and every step", func() {
		s := fromPreset("circular_binary")
		s.cfg.Steps = 10
		obs := &countingObserver{}
		s.sim.AddObserver(obs)

		res, err := s.sim.Run(ctx, s.sys, s.cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(obs.steps).To(Equal([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}))
		Expect(res.Trajectory.Rows()).To(HaveLen(22))
		Expect(res.Trajectory.Positions[1][0]).To(Equal([]float64{1, 0}))
	})

	Describe("collisions", func() {
		// Two bodies closing at unit speed with no attraction meet exactly at
		// the origin after four Euler steps of 0.25.
		headOn := func() (*sim.Simulator, *body.System) {
			field := gravity.NewField([]float64{1, 1}, 0)
			sys, err := body.NewSystem([]*body.Body{
				body.New(1, []float64{-1, 0}, []float64{1, 0}),
				body.New(1, []float64{1, 0}, []float64{-1, 0}),
			})
			Expect(err).NotTo(HaveOccurred())
			return sim.New(field.Derivative(), integrators.NewEuler()), sys
		}

		It("halts at the failing step without appending it", func() {
			s, sys := headOn()
			res, err := s.Run(ctx, sys, sim.Config{Dt: 0.25, Steps: 10})
			Expect(err).To(HaveOccurred())

			var se *dynamo.SimulationError
			Expect(errors.As(err, &se)).To(BeTrue())
			Expect(se.Step).To(Equal(5))
			Expect(se.Time).To(Equal(1.0))

			var ce *dynamo.CollisionError
			Expect(errors.As(err, &ce)).To(BeTrue())
			Expect([]int{ce.I, ce.J}).To(Equal([]int{0, 1}))
			Expect(errors.Is(err, dynamo.ErrCollision)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("collision between bodies 0 and 1"))

			Expect(res.StepsTaken).To(Equal(4))
			Expect(res.Trajectory.Len()).To(Equal(5))
		})

		It("reports nothing once softened", func() {
			field := gravity.NewField([]float64{1, 1}, 0)
			field.Softening = 0.01
			sys, err := body.NewSystem([]*body.Body{
				body.New(1, []float64{-1, 0}, []float64{1, 0}),
				body.New(1, []float64{1, 0}, []float64{-1, 0}),
			})
			Expect(err).NotTo(HaveOccurred())

			res, err := sim.New(field.Derivative(), integrators.NewEuler()).
				Run(ctx, sys, sim.Config{Dt: 0.25, Steps: 10})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.StepsTaken).To(Equal(10))
		})
	})

	It("rejects invalid step parameters", func() {
		s := fromPreset("binary")
		_, err := s.sim.Run(ctx, s.sys, sim.Config{Dt: 0, Steps: 10})
		Expect(errors.Is(err, dynamo.ErrInvalidConfig)).To(BeTrue())
		_, err = s.sim.Run(ctx, s.sys, sim.Config{Dt: 0.1, Steps: 0})
		Expect(errors.Is(err, dynamo.ErrInvalidConfig)).To(BeTrue())
	})

	It("stops when the context is cancelled", func() {
		s := fromPreset("binary")
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		res, err := s.sim.Run(cctx, s.sys, s.cfg)
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		Expect(res.StepsTaken).To(Equal(0))
		Expect(res.Trajectory.Len()).To(Equal(1))
	})

	It("produces identical trajectories on repeated runs", func() {
		a := fromPreset("figure_eight")
		b := fromPreset("figure_eight")
		ra, err := a.sim.Run(ctx, a.sys, a.cfg)
		Expect(err).NotTo(HaveOccurred())
		rb, err := b.sim.Run(ctx, b.sys, b.cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(rb.Trajectory.Positions).To(Equal(ra.Trajectory.Positions))
	})
})

var _ = Describe("RunEnsemble", func() {
	It("runs every job and reports failures per job", func() {
		good := fromPreset("circular_binary")
		good.cfg.Steps = 50

		field := gravity.NewField([]float64{1, 1}, 0)
		sys, err := body.NewSystem([]*body.Body{
			body.New(1, []float64{-1, 0}, []float64{1, 0}),
			body.New(1, []float64{1, 0}, []float64{-1, 0}),
		})
		Expect(err).NotTo(HaveOccurred())

		jobs := []sim.Job{
			{Name: "good", Simulator: good.sim, System: good.sys, Config: good.cfg},
			{Name: "bad", Simulator: sim.New(field.Derivative(), integrators.NewEuler()), System: sys, Config: sim.Config{Dt: 0.25, Steps: 10}},
		}

		results, errs := sim.RunEnsemble(context.Background(), jobs, 2)
		Expect(results).To(HaveLen(2))
		Expect(errs[0]).NotTo(HaveOccurred())
		Expect(results[0].StepsTaken).To(Equal(50))
		Expect(errors.Is(errs[1], dynamo.ErrCollision)).To(BeTrue())
		Expect(results[1].StepsTaken).To(Equal(4))
	})
})
