package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

var axisNames = []string{"x", "y", "z"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes one row per (time, body) with columns t, body and one
// column per position component.
func WriteCSV(w io.Writer, tr *sim.Trajectory) error {
	if tr.Dim > len(axisNames) {
		return dynamo.Invalid("dim", "cannot name %d axes", tr.Dim)
	}

	cw := csv.NewWriter(w)
	header := append([]string{"t", "body"}, axisNames[:tr.Dim]...)
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, 2+tr.Dim)
	err := tr.Each(func(r sim.Row) error {
		record[0] = formatFloat(r.Time)
		record[1] = strconv.Itoa(r.Body)
		for c, v := range r.Position {
			record[2+c] = formatFloat(v)
		}
		return cw.Write(record)
	})
	if err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses the output of WriteCSV. Rows must be grouped by time
// with bodies in order, as WriteCSV emits them.
func ReadCSV(r io.Reader) (*sim.Trajectory, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("trajectory csv: missing header")
	}

	dim := len(records[0]) - 2
	if dim < 1 || dim > len(axisNames) {
		return nil, fmt.Errorf("trajectory csv: unexpected header %v", records[0])
	}

	bodies := 0
	for _, rec := range records[1:] {
		i, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("trajectory csv: body index %q: %w", rec[1], err)
		}
		if i < 0 {
			return nil, fmt.Errorf("trajectory csv: negative body index %d", i)
		}
		if i+1 > bodies {
			bodies = i + 1
		}
	}

	rows := records[1:]
	if bodies > 0 && len(rows)%bodies != 0 {
		return nil, fmt.Errorf("trajectory csv: %d rows do not divide into %d bodies", len(rows), bodies)
	}

	tr := sim.NewTrajectory(bodies, dim, len(rows)/max(bodies, 1))
	for k := 0; k < len(rows); k += bodies {
		t, err := strconv.ParseFloat(rows[k][0], 64)
		if err != nil {
			return nil, fmt.Errorf("trajectory csv: time %q: %w", rows[k][0], err)
		}

		u := make(dynamo.State, 2*dim*bodies)
		for i := 0; i < bodies; i++ {
			rec := rows[k+i]
			if b, _ := strconv.Atoi(rec[1]); b != i {
				return nil, fmt.Errorf("trajectory csv: row %d: expected body %d, got %d", k+i+2, i, b)
			}
			for c := 0; c < dim; c++ {
				v, err := strconv.ParseFloat(rec[2+c], 64)
				if err != nil {
					return nil, fmt.Errorf("trajectory csv: row %d: %w", k+i+2, err)
				}
				u[2*dim*i+c] = v
			}
		}
		tr.Append(t, u)
	}
	return tr, nil
}
