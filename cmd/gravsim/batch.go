package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/automation"
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/optim"
)

func batchCommands() []*cobra.Command {
	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run and store every run listed in a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	mcCmd := &cobra.Command{
		Use:   "montecarlo [preset]",
		Short: "perturb initial velocities and count bounded, escaped and colliding trials",
		Args:  cobra.ExactArgs(1),
		RunE:  runMonteCarlo,
	}
	mcCmd.Flags().Int("trials", 50, "number of trials")
	mcCmd.Flags().Float64("perturbation", 0.05, "max velocity perturbation per component")
	mcCmd.Flags().Float64("radius", 10, "escape radius")
	mcCmd.Flags().Int("parallel", 0, "trials at a time (0 = all)")
	mcCmd.Flags().Int64("seed", 1, "random seed")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset] [param=v1,v2,...]...",
		Short: "grid search run parameters minimizing a metric",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runSweep,
	}
	sweepCmd.Flags().String("metric", "energy_drift", "metric to minimize")

	chaosCmd := &cobra.Command{
		Use:   "chaos [preset]",
		Short: "estimate the largest Lyapunov exponent",
		Args:  cobra.ExactArgs(1),
		RunE:  runChaos,
	}
	chaosCmd.Flags().Float64("perturbation", 1e-8, "initial separation")

	return []*cobra.Command{batchCmd, mcCmd, sweepCmd, chaosCmd}
}

func runBatch(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := openStore()
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	outcomes, err := automation.RunScenario(ctx, scenario, st, log)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tRUN ID\tSTEPS\tSTATUS")
	for _, o := range outcomes {
		status := "ok"
		if o.Err != nil {
			status = o.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", o.Name, o.RunID, o.Result.StepsTaken, status)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	base, err := lookupPreset(args[0], 20)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	cfg := &automation.MonteCarloConfig{Base: base}
	cfg.NumTrials, _ = flags.GetInt("trials")
	cfg.Perturbation, _ = flags.GetFloat64("perturbation")
	cfg.Radius, _ = flags.GetFloat64("radius")
	cfg.Parallel, _ = flags.GetInt("parallel")
	cfg.Seed, _ = flags.GetInt64("seed")

	results, err := automation.RunMonteCarlo(context.Background(), cfg)
	if err != nil {
		return err
	}

	bounded, escaped, collided := automation.MonteCarloStats(results)
	fmt.Printf("%s: %d trials, perturbation %.3g, radius %.3g\n", base.Name, cfg.NumTrials, cfg.Perturbation, cfg.Radius)
	fmt.Printf("  bounded:  %d\n  escaped:  %d\n  collided: %d\n", bounded, escaped, collided)
	return nil
}

// parseGrid reads "name=v1,v2,..." arguments.
func parseGrid(args []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(args))
	ranges := make([][]float64, 0, len(args))
	for _, arg := range args {
		name, list, ok := strings.Cut(arg, "=")
		if !ok || list == "" {
			return nil, nil, fmt.Errorf("expected name=v1,v2,..., got %q", arg)
		}
		if _, known := optim.Tunable[name]; !known {
			return nil, nil, fmt.Errorf("unknown parameter: %s", name)
		}
		var values []float64
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", name, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := lookupPreset(args[0], 20)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(args[1:])
	if err != nil {
		return err
	}
	metric, _ := cmd.Flags().GetString("metric")

	build := func(params map[string]float64) (*experiment.Experiment, error) {
		cfg, err := optim.Apply(base, params)
		if err != nil {
			return nil, err
		}
		return experiment.New(cfg)
	}

	best, value, trials, err := optim.NewGridSearch(names, ranges).Search(context.Background(), build, metric)
	for _, tr := range trials {
		if tr.Err != nil {
			log.Warn("sweep point failed", "params", tr.Params, "err", tr.Err)
			continue
		}
		log.Debug("sweep point", "params", tr.Params, metric, tr.Value)
	}
	if err != nil {
		return err
	}

	fmt.Printf("best %s = %.6g at", metric, value)
	for _, name := range names {
		fmt.Printf(" %s=%g", name, best[name])
	}
	fmt.Println()
	return nil
}

func runChaos(cmd *cobra.Command, args []string) error {
	cfg, err := lookupPreset(args[0], 20)
	if err != nil {
		return err
	}
	eps, _ := cmd.Flags().GetFloat64("perturbation")

	e, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	integ, err := integrators.Lookup(cfg.Integrator, cfg.Dim())
	if err != nil {
		return err
	}

	lambda, err := analysis.LyapunovExponent(e.Field().Derivative(), integ, body.BodiesToVector(e.System()), cfg.Dt(), cfg.Steps, eps)
	if err != nil {
		return err
	}

	fmt.Printf("%s: largest Lyapunov exponent %.4g (over t=%.4g)\n", cfg.Name, lambda, cfg.TEnd-cfg.TStart)
	return nil
}
