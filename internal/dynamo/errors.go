package dynamo

import (
	"errors"
	"fmt"
)

// Construction errors. Nothing fails once a Simulator exists.
var (
	// ErrUnknownParameterSet indicates a parameter set name missing from ParameterSets.
	ErrUnknownParameterSet = errors.New("dynamo: unknown parameter set")

	// ErrInvalidConfiguration indicates a non-positive dt or capacity, or no trajectories.
	ErrInvalidConfiguration = errors.New("dynamo: invalid configuration")
)

// ConfigError wraps a construction error with the offending field.
type ConfigError struct {
	Field   string
	Value   any
	Wrapped error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s=%v", e.Wrapped.Error(), e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}
