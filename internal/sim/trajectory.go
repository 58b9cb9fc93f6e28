package sim

import (
	"github.com/san-kum/gravsim/internal/dynamo"
)

// Trajectory records every body's position after each completed step,
// starting with the initial condition.
type Trajectory struct {
	Dim       int
	Times     []float64
	Positions [][][]float64 // [body][step][component]
}

func NewTrajectory(bodies, dim, capacity int) *Trajectory {
	tr := &Trajectory{
		Dim:       dim,
		Times:     make([]float64, 0, capacity),
		Positions: make([][][]float64, bodies),
	}
	for i := range tr.Positions {
		tr.Positions[i] = make([][]float64, 0, capacity)
	}
	return tr
}

// Append copies the positions out of u.
func (tr *Trajectory) Append(t float64, u dynamo.State) {
	tr.Times = append(tr.Times, t)
	for i := range tr.Positions {
		off := 2 * tr.Dim * i
		p := make([]float64, tr.Dim)
		copy(p, u[off:off+tr.Dim])
		tr.Positions[i] = append(tr.Positions[i], p)
	}
}

func (tr *Trajectory) Len() int    { return len(tr.Times) }
func (tr *Trajectory) Bodies() int { return len(tr.Positions) }

// Row is one (time, body, position) sample of the output contract.
type Row struct {
	Time     float64
	Body     int
	Position []float64
}

// Each calls fn for every row, steps in order and bodies in system order
// within a step, stopping at the first error.
func (tr *Trajectory) Each(fn func(Row) error) error {
	for k, t := range tr.Times {
		for i := range tr.Positions {
			if err := fn(Row{Time: t, Body: i, Position: tr.Positions[i][k]}); err != nil {
				return err
			}
		}
	}
	return nil
}

// Component returns coordinate c of body i over time.
func (tr *Trajectory) Component(i, c int) []float64 {
	out := make([]float64, len(tr.Positions[i]))
	for k, p := range tr.Positions[i] {
		out[k] = p[c]
	}
	return out
}

// Rows flattens the trajectory in Each order.
func (tr *Trajectory) Rows() []Row {
	rows := make([]Row, 0, tr.Len()*tr.Bodies())
	_ = tr.Each(func(r Row) error {
		rows = append(rows, r)
		return nil
	})
	return rows
}
