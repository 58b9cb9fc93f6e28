package gravity_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/gravity"
)

var _ = Describe("ComputeDUDT", func() {
	It("places velocities before accelerations for every body", func() {
		u := dynamo.State{
			0, 0, 0, 1,
			1, 0, 0, -1,
		}
		dudt, err := gravity.ComputeDUDT(0, u, []float64{1, 1}, 1.0)
		Expect(err).NotTo(HaveOccurred())
		Expect(dudt).To(HaveLen(len(u)))

		Expect([]float64(dudt[0:2])).To(Equal([]float64{0, 1}))
		Expect(dudt[2]).To(BeNumerically("~", 1.0, 1e-15))
		Expect([]float64(dudt[4:6])).To(Equal([]float64{0, -1}))
		Expect(dudt[6]).To(BeNumerically("~", -1.0, 1e-15))
	})

	It("handles three dimensions without special cases", func() {
		u := dynamo.State{
			0, 0, 0, 1, 2, 3,
			0, 0, 2, 0, 0, 0,
		}
		dudt, err := gravity.ComputeDUDT(0, u, []float64{1, 1}, 1.0)
		Expect(err).NotTo(HaveOccurred())
		Expect([]float64(dudt[0:3])).To(Equal([]float64{1, 2, 3}))
		Expect(dudt[5]).To(BeNumerically("~", 0.25, 1e-15))
		Expect(dudt[11]).To(BeNumerically("~", -0.25, 1e-15))
	})

	It("ignores t", func() {
		u := dynamo.State{0, 0, 0.3, 1, 1, 0.5, 0, -1}
		a, err := gravity.ComputeDUDT(0, u, []float64{1, 2}, 1.0)
		Expect(err).NotTo(HaveOccurred())
		b, err := gravity.ComputeDUDT(123.4, u, []float64{1, 2}, 1.0)
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
	})

	It("propagates collisions", func() {
		u := dynamo.State{1, 1, 0, 0, 1, 1, 0, 0}
		_, err := gravity.ComputeDUDT(0, u, []float64{1, 1}, 1.0)
		var ce *dynamo.CollisionError
		Expect(errors.As(err, &ce)).To(BeTrue())
		Expect(ce.I).To(Equal(0))
		Expect(ce.J).To(Equal(1))
	})

	It("rejects a state that does not match the masses", func() {
		_, err := gravity.ComputeDUDT(0, dynamo.State{1, 2, 3}, []float64{1, 1}, 1.0)
		Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
	})
})

var _ = Describe("Field", func() {
	It("reports energy and momenta of a symmetric binary", func() {
		field := gravity.NewField([]float64{1, 1}, 1.0)
		u := dynamo.State{
			0, 0, 0, 1,
			1, 0, 0, -1,
		}
		Expect(field.Energy(u)).To(BeNumerically("~", 0.0, 1e-15))
		Expect(field.Momentum(u)).To(Equal([]float64{0, 0}))
		Expect(field.AngularMomentum(u)).To(Equal([]float64{-1}))
	})

	It("exposes DUDT as a derivative with its options", func() {
		field := gravity.NewField([]float64{1, 1}, 1.0)
		field.Softening = 0.1
		u := dynamo.State{0, 0, 0, 0, 0, 0, 0, 0}
		du, err := field.Derivative()(0, u)
		Expect(err).NotTo(HaveOccurred())
		Expect(du).To(Equal(dynamo.State{0, 0, 0, 0, 0, 0, 0, 0}))
	})
})
