package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/gravsim/internal/sim"
)

type ExportData struct {
	RunMetadata
	Times     []float64     `json:"times"`
	Positions [][][]float64 `json:"positions"`
}

// ExportJSON writes metadata and the full trajectory as one document.
// Positions are indexed [body][step][component].
func ExportJSON(w io.Writer, meta RunMetadata, tr *sim.Trajectory) error {
	data := ExportData{
		RunMetadata: meta,
		Times:       tr.Times,
		Positions:   tr.Positions,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
