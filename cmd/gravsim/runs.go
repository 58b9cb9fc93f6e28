package main

import (
	"fmt"
	"io"
	"os"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/tui"
)

var axisNames = []string{"x", "y", "z"}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := openStore().List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	fmt.Print(tui.RunTable(runs))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := openStore()
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	tr, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	if tr.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}
	if plotBody < 0 || plotBody >= tr.Bodies() {
		return fmt.Errorf("body %d out of range (run has %d bodies)", plotBody, tr.Bodies())
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", tr.Len())

	for c := 0; c < tr.Dim; c++ {
		graph := asciigraph.Plot(tr.Component(plotBody, c),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("body %d %s vs time", plotBody, axisNames[c])),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := openStore()
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	tr, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (%d samples, dt=%.4g)\n\n", meta.ID, tr.Len(), meta.Dt)
	fmt.Printf("%-6s  %-14s  %-14s\n", "body", "period", "return_dist")
	for i := 0; i < tr.Bodies(); i++ {
		period := analysis.DominantPeriod(tr.Component(i, 0), meta.Dt)
		fmt.Printf("%-6d  %-14.6g  %-14.6g\n", i, period, analysis.ReturnDistance(tr, i))
	}

	return nil
}

func output() (io.Writer, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	tr, err := openStore().LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.WriteCSV(w, tr); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := openStore()
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tr, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(w, *meta, tr); err != nil {
		closeFn()
		return err
	}
	if outFile != "" {
		log.Info("exported", "run", meta.ID, "path", outFile)
	}
	return closeFn()
}
