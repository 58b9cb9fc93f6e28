package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidConfig indicates malformed initial conditions or step parameters.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrInvalidState indicates a state vector with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrDimensionMismatch indicates a derivative whose length differs from the state.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and derivative")

	// ErrCollision is matched by every CollisionError.
	ErrCollision = errors.New("dynamo: collision")
)

// CollisionError reports two distinct bodies at exactly the same position.
type CollisionError struct {
	I, J int
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("dynamo: collision between bodies %d and %d", e.I, e.J)
}

func (e *CollisionError) Is(target error) bool {
	return target == ErrCollision
}

// ConfigError names the offending field of a rejected configuration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("dynamo: invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// Invalid builds a ConfigError with a formatted reason.
func Invalid(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// SimulationError wraps a failed step with its position in the run.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	var ce *CollisionError
	if errors.As(e.Wrapped, &ce) {
		return fmt.Sprintf("simulation halted at step %d (t=%.6g): collision between bodies %d and %d", e.Step, e.Time, ce.I, ce.J)
	}
	return fmt.Sprintf("simulation halted at step %d (t=%.6g): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
