package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/tui"
)

var (
	dataDir    string
	logLevel   string
	preset     string
	configFile string
	integrator string
	steps      int
	tEnd       float64
	softening  float64
	workers    int
	seed       int64
	numBodies  int
	progress   bool
	noSave     bool
	plotBody   int
	outFile    string
	limit      int

	log *slog.Logger
)

// main registers the commands and exits with status 1 if the selected
// command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "gravsim",
		Short:         "n-body gravity simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			log, err = newLogger(logLevel)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&preset, "preset", "", "built-in preset (see `gravsim presets`)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	runCmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	runCmd.Flags().Float64Var(&tEnd, "t-end", 1.0, "end time")
	runCmd.Flags().Float64Var(&softening, "softening", 0, "force softening added to d³")
	runCmd.Flags().IntVar(&workers, "workers", 1, "goroutines for force evaluation")
	runCmd.Flags().Int64Var(&seed, "seed", 1, "random seed (random preset)")
	runCmd.Flags().IntVar(&numBodies, "bodies", 20, "number of bodies (random preset)")
	runCmd.Flags().BoolVar(&progress, "progress", false, "show live progress")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Print(tui.PresetTable(config.ListPresets()))
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a body's coordinates against time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotBody, "body", 0, "body index")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "orbital period and return distance per body",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a trajectory as t, body, x, y[, z] rows",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and trajectory to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	compareCmd := &cobra.Command{
		Use:   "compare [preset] [integrator1] [integrator2] ...",
		Short: "run one preset with several integrators",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	compareCmd.Flags().IntVar(&steps, "steps", 0, "override the preset's step count")
	compareCmd.Flags().IntVar(&limit, "parallel", 0, "runs at a time (0 = all)")

	orderCmd := &cobra.Command{
		Use:   "order [preset]",
		Short: "estimate an integrator's convergence order",
		Args:  cobra.ExactArgs(1),
		RunE:  estimateOrder,
	}
	orderCmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	orderCmd.Flags().IntVar(&steps, "steps", 100, "coarsest step count")

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "measure throughput with different worker counts",
		Args:  cobra.ExactArgs(1),
		RunE:  benchPreset,
	}
	benchCmd.Flags().IntVar(&numBodies, "bodies", 200, "number of bodies (random preset)")
	benchCmd.Flags().IntVar(&steps, "steps", 20, "steps per measurement")

	rootCmd.AddCommand(runCmd, presetsCmd, listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, compareCmd, orderCmd, benchCmd)
	rootCmd.AddCommand(batchCommands()...)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

func openStore() *storage.Store {
	return storage.New(dataDir).WithLogger(log)
}
