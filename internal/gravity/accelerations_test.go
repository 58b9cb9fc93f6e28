package gravity_test

import (
	"errors"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/gravity"
)

var _ = Describe("ComputeAccelerations", func() {
	It("follows the inverse-square law for two bodies", func() {
		acc, err := gravity.ComputeAccelerations(
			[][]float64{{0, 0}, {2, 0}},
			[]float64{1, 3},
			1.0,
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(acc).To(HaveLen(2))
		Expect(acc[0][0]).To(BeNumerically("~", 3.0/4.0, 1e-15))
		Expect(acc[0][1]).To(BeNumerically("~", 0, 1e-15))
		Expect(acc[1][0]).To(BeNumerically("~", -1.0/4.0, 1e-15))
	})

	It("obeys Newton's third law for random pairs", func() {
		rng := rand.New(rand.NewSource(7))
		for trial := 0; trial < 100; trial++ {
			dim := 2 + trial%2
			pos := [][]float64{make([]float64, dim), make([]float64, dim)}
			for k := 0; k < dim; k++ {
				pos[0][k] = rng.Float64()*10 - 5
				pos[1][k] = rng.Float64()*10 - 5
			}
			masses := []float64{rng.Float64()*5 + 0.1, rng.Float64()*5 + 0.1}
			G := rng.Float64()*40 + 0.1

			acc, err := gravity.ComputeAccelerations(pos, masses, G)
			Expect(err).NotTo(HaveOccurred())

			for k := 0; k < dim; k++ {
				fi := masses[0] * acc[0][k]
				fj := masses[1] * acc[1][k]
				scale := math.Max(math.Abs(fi), 1)
				Expect(fi + fj).To(BeNumerically("~", 0, 1e-12*scale))
			}
		}
	})

	It("never includes a self term", func() {
		acc, err := gravity.ComputeAccelerations([][]float64{{1, 2, 3}}, []float64{5}, 1.0)
		Expect(err).NotTo(HaveOccurred())
		Expect(acc).To(Equal([][]float64{{0, 0, 0}}))

		// negligible third body
		pos := [][]float64{{0, 0}, {1, 0}, {0, 1e6}}
		masses := []float64{1, 1, 1e-30}
		acc, err = gravity.ComputeAccelerations(pos, masses, 1.0)
		Expect(err).NotTo(HaveOccurred())
		Expect(acc[0][0]).To(BeNumerically("~", 1.0, 1e-12))
		Expect(acc[1][0]).To(BeNumerically("~", -1.0, 1e-12))
	})

	It("keeps the pull between bodies at a tiny nonzero separation", func() {
		acc, err := gravity.ComputeAccelerations(
			[][]float64{{0, 0}, {1e-120, 0}},
			[]float64{1, 1},
			1.0,
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(math.IsInf(acc[0][0], 0)).To(BeFalse())
		Expect(acc[0][0]).To(BeNumerically("~", 1e240, 1e228))
		Expect(acc[0][1]).To(BeZero())
		Expect(acc[1][0]).To(Equal(-acc[0][0]))
	})

	It("fails on coincident bodies naming both indices", func() {
		acc, err := gravity.ComputeAccelerations(
			[][]float64{{0, 0}, {1, 1}, {1, 1}},
			[]float64{1, 1, 1},
			1.0,
		)
		Expect(acc).To(BeNil())
		Expect(errors.Is(err, dynamo.ErrCollision)).To(BeTrue())

		var ce *dynamo.CollisionError
		Expect(errors.As(err, &ce)).To(BeTrue())
		Expect(ce.I).To(Equal(1))
		Expect(ce.J).To(Equal(2))
		Expect(err.Error()).To(ContainSubstring("bodies 1 and 2"))
	})

	It("rejects mismatched inputs as invalid configuration", func() {
		_, err := gravity.ComputeAccelerations([][]float64{{0, 0}}, []float64{1, 1}, 1.0)
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))

		_, err = gravity.ComputeAccelerations([][]float64{{0, 0}, {1, 0, 0}}, []float64{1, 1}, 1.0)
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))

		_, err = gravity.ComputeAccelerations([][]float64{{0, 0}, {1, 0}}, []float64{1, 0}, 1.0)
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
	})

	Context("with softening", func() {
		It("adds epsilon to the cubic distance", func() {
			acc, err := gravity.ComputeAccelerationsWith(
				[][]float64{{0, 0}, {1, 0}},
				[]float64{1, 1},
				1.0,
				gravity.Options{Softening: 0.1},
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(acc[0][0]).To(BeNumerically("~", 1.0/1.1, 1e-15))
		})

		It("tolerates coincident bodies", func() {
			acc, err := gravity.ComputeAccelerationsWith(
				[][]float64{{0, 0}, {0, 0}},
				[]float64{1, 1},
				1.0,
				gravity.Options{Softening: 0.1},
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(acc).To(Equal([][]float64{{0, 0}, {0, 0}}))
		})
	})

	Context("with workers", func() {
		It("matches the serial result bit for bit", func() {
			rng := rand.New(rand.NewSource(42))
			n := 3 * gravity.ParallelThreshold
			pos := make([][]float64, n)
			masses := make([]float64, n)
			for i := range pos {
				pos[i] = []float64{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
				masses[i] = rng.Float64() + 0.01
			}

			serial, err := gravity.ComputeAccelerations(pos, masses, 1.0)
			Expect(err).NotTo(HaveOccurred())
			parallel, err := gravity.ComputeAccelerationsWith(pos, masses, 1.0, gravity.Options{Workers: 8})
			Expect(err).NotTo(HaveOccurred())
			Expect(parallel).To(Equal(serial))
		})

		It("reports the same collision as the serial path", func() {
			n := 2 * gravity.ParallelThreshold
			pos := make([][]float64, n)
			masses := make([]float64, n)
			for i := range pos {
				pos[i] = []float64{float64(i), 0}
				masses[i] = 1
			}
			pos[n-1] = []float64{float64(n - 2), 0}

			_, err := gravity.ComputeAccelerationsWith(pos, masses, 1.0, gravity.Options{Workers: 4})
			var ce *dynamo.CollisionError
			Expect(errors.As(err, &ce)).To(BeTrue())
			Expect([]int{ce.I, ce.J}).To(Equal([]int{n - 2, n - 1}))
		})
	})
})
