package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/sim"
)

func lookupPreset(name string, bodies int) (*config.Config, error) {
	if name == "random" {
		return config.RandomCluster(bodies, 1, 3), nil
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
	}
	return cfg, nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	name, names := args[0], args[1:]

	jobs := make([]sim.Job, 0, len(names))
	exps := make([]*experiment.Experiment, 0, len(names))
	for _, integ := range names {
		cfg, err := lookupPreset(name, 20)
		if err != nil {
			return err
		}
		cfg.Integrator = integ
		if cmd.Flags().Changed("steps") {
			cfg.Steps, _ = cmd.Flags().GetInt("steps")
		}

		e, err := experiment.New(cfg)
		if err != nil {
			return err
		}
		exps = append(exps, e)
		jobs = append(jobs, e.Job())
	}

	log.Debug("comparing integrators", "preset", name, "runs", len(jobs))
	start := time.Now()
	results, errs := sim.RunEnsemble(context.Background(), jobs, limit)
	elapsed := time.Since(start)

	cfg := exps[0].Config()
	fmt.Printf("comparing integrators on %s (dt=%.4g, steps=%d, %v total)\n\n", cfg.Name, cfg.Dt(), cfg.Steps, elapsed)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tSTEPS\tENERGY_DRIFT\tMOMENTUM_DRIFT\tRETURN_DIST\tSTATUS")
	for i, res := range results {
		status := "ok"
		if errs[i] != nil {
			status = errs[i].Error()
		}
		if res == nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t%s\n", names[i], status)
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%.3e\t%.3e\t%.3e\t%s\n",
			names[i],
			res.StepsTaken,
			res.Metrics["energy_drift"],
			res.Metrics["momentum_drift"],
			analysis.ReturnDistance(res.Trajectory, len(cfg.Masses)-1),
			status,
		)
	}
	return w.Flush()
}

func estimateOrder(cmd *cobra.Command, args []string) error {
	cfg, err := lookupPreset(args[0], 20)
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("integrator")
	n, _ := cmd.Flags().GetInt("steps")

	e, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	integ, err := integrators.Lookup(name, cfg.Dim())
	if err != nil {
		return err
	}

	ord, err := analysis.EstimateOrder(e.Field().Derivative(), integ, body.BodiesToVector(e.System()), cfg.TStart, cfg.TEnd, n)
	if err != nil {
		return err
	}

	fmt.Printf("%s on %s over [%.4g, %.4g]\n\n", name, cfg.Name, cfg.TStart, cfg.TEnd)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEPS\tDT")
	for _, s := range ord.Steps {
		fmt.Fprintf(w, "%d\t%.4g\n", s, (cfg.TEnd-cfg.TStart)/float64(s))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nerror ratio: %.3f\nobserved order: %.2f\n", ord.Ratio, ord.Order)
	return nil
}

func benchPreset(cmd *cobra.Command, args []string) error {
	bodies, _ := cmd.Flags().GetInt("bodies")
	n, _ := cmd.Flags().GetInt("steps")

	counts := []int{1, 2, 4, runtime.NumCPU()}
	rates := make([]float64, 0, len(counts))

	fmt.Printf("benchmarking %s\n\n", args[0])
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tBODIES\tSTEPS\tTIME\tSTEPS/SEC")

	for _, workers := range counts {
		cfg, err := lookupPreset(args[0], bodies)
		if err != nil {
			return err
		}
		cfg.Steps = n
		cfg.Workers = workers

		e, err := experiment.New(cfg)
		if err != nil {
			return err
		}

		start := time.Now()
		result, err := e.Run(context.Background())
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		rate := float64(result.StepsTaken) / elapsed.Seconds()
		rates = append(rates, rate)
		fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\n", workers, len(cfg.Masses), result.StepsTaken, elapsed, rate)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(asciigraph.Plot(rates, asciigraph.Height(6), asciigraph.Caption("steps/sec by worker count")))
	return nil
}
