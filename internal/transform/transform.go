package transform

import (
	"fmt"

	"github.com/rgehrsitz/dcaplan/internal/domain"
)

// ParameterTransform is a composable change to a set of plan parameters.
// Transforms let compare, break-even and the TUI derive variations of a
// base plan in predictable ways.
type ParameterTransform interface {
	// Apply returns a modified copy of base. base itself is never changed.
	Apply(base *domain.Parameters) (*domain.Parameters, error)

	// Name returns a short identifier for this transform (e.g., "adjust_rate").
	Name() string

	// Description returns a human-readable description of what this transform does.
	Description() string

	// Validate checks the transform against base without applying it.
	Validate(base *domain.Parameters) error
}

// ApplyTransforms applies transforms in order, each one receiving the output
// of the previous one.
func ApplyTransforms(base *domain.Parameters, transforms []ParameterTransform) (*domain.Parameters, error) {
	if base == nil {
		return nil, fmt.Errorf("base parameters cannot be nil")
	}

	current := copyOf(base)
	for i, transform := range transforms {
		if transform == nil {
			return nil, fmt.Errorf("transform at index %d is nil", i)
		}

		if err := transform.Validate(current); err != nil {
			return nil, fmt.Errorf("transform %s validation failed: %w", transform.Name(), err)
		}

		next, err := transform.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("transform %s failed: %w", transform.Name(), err)
		}

		current = next
	}

	return current, nil
}

func copyOf(p *domain.Parameters) *domain.Parameters {
	c := *p
	return &c
}

// TransformError represents an error that occurred during transformation.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}

func requireBase(name string, base *domain.Parameters) error {
	if base == nil {
		return NewTransformError(name, "validate", "base parameters cannot be nil", nil)
	}
	return nil
}
