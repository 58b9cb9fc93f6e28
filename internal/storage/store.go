// Package storage keeps finished runs on disk, one directory per run.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
	configFile     = "config.yaml"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
	log     *slog.Logger
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithLogger returns a store that reports skipped and saved runs to log.
func (s *Store) WithLogger(log *slog.Logger) *Store {
	return &Store{baseDir: s.baseDir, log: log}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Preset     string             `json:"preset"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed,omitempty"`
	TStart     float64            `json:"t_start"`
	TEnd       float64            `json:"t_end"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	StepsTaken int                `json:"steps_taken"`
	Bodies     int                `json:"bodies"`
	Dim        int                `json:"dim"`
	G          float64            `json:"g"`
	Softening  float64            `json:"softening,omitempty"`
	Integrator string             `json:"integrator"`
	Error      string             `json:"error,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
}

// NewMetadata describes a run of cfg. runErr is recorded when the run
// halted early.
func NewMetadata(cfg *config.Config, result *sim.Result, runErr error) RunMetadata {
	meta := RunMetadata{
		Preset:     cfg.Name,
		Timestamp:  time.Now(),
		Seed:       cfg.Seed,
		TStart:     cfg.TStart,
		TEnd:       cfg.TEnd,
		Dt:         cfg.Dt(),
		Steps:      cfg.Steps,
		StepsTaken: result.StepsTaken,
		Bodies:     len(cfg.Masses),
		Dim:        cfg.Dim(),
		G:          cfg.G,
		Softening:  cfg.Softening,
		Integrator: cfg.Integrator,
		Metrics:    result.Metrics,
	}
	if runErr != nil {
		meta.Error = runErr.Error()
	}
	return meta
}

// Save writes metadata, the trajectory and the configuration that
// produced it, returning the new run ID.
func (s *Store) Save(cfg *config.Config, meta RunMetadata, tr *sim.Trajectory) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Preset, meta.Timestamp.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	meta.ID = runID

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}

	csvFile, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, tr); err != nil {
		return "", fmt.Errorf("write trajectory: %w", err)
	}

	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}

	s.log.Debug("run saved", "id", runID, "rows", tr.Len()*tr.Bodies())
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			s.log.Warn("skipping run", "dir", entry.Name(), "err", err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}

	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) (*sim.Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file)
}

// LoadConfig returns the configuration a run was started from.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}
