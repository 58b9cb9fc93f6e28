package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/tui"
)

// resolveConfig starts from the preset, lets a config file replace it and
// applies flags the user set explicitly.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config

	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	case preset == "random":
		n, _ := cmd.Flags().GetInt("bodies")
		cfg = config.RandomCluster(n, seed, 3)
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	default:
		cfg = config.GetPreset("binary")
	}

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("t-end") {
		cfg.TEnd = tEnd
	}
	if flags.Changed("softening") {
		cfg.Softening = softening
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info("running simulation",
		"preset", cfg.Name,
		"bodies", len(cfg.Masses),
		"integrator", cfg.Integrator,
		"steps", cfg.Steps,
		"dt", cfg.Dt())
	start := time.Now()

	var result *sim.Result
	var runErr error
	if progress {
		result, runErr = tui.RunWithProgress(ctx, exp)
	} else {
		result, runErr = exp.Run(ctx)
	}
	if result == nil {
		return runErr
	}

	log.Info("simulation finished", "elapsed", time.Since(start), "steps", result.StepsTaken)
	if runErr != nil {
		log.Error("simulation halted", "err", runErr)
	}

	if !noSave {
		st := openStore()
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, storage.NewMetadata(cfg, result, runErr), result.Trajectory)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Println(tui.Summary(cfg, result, runErr))
	return runErr
}
