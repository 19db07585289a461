package contract

import (
	"errors"
	"fmt"
)

// StageErrorKind identifies which part of the error taxonomy a failure
// belongs to. The orchestrator uses the kind to decide between fatal and
// degraded-mode handling.
type StageErrorKind string

// All stage error kinds supported.
const (
	DataErrorKind        StageErrorKind = "data"
	TrainingErrorKind    StageErrorKind = "model_training"
	ClusteringErrorKind  StageErrorKind = "clustering"
	AnomalyErrorKind     StageErrorKind = "anomaly_detection"
	ExplainErrorKind     StageErrorKind = "explainability"
	UnavailableErrorKind StageErrorKind = "library_unavailable"
)

// StageError is a tagged error carrying its taxonomy kind. Stage-local
// failures are wrapped in a StageError at the stage boundary and recorded
// into the steps log; they never propagate past the orchestrator.
type StageError struct {
	Kind StageErrorKind
	Err  error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *StageError) Unwrap() error {
	return e.Err
}

// NewDataError wraps a malformed/insufficient-input failure. Always fatal.
func NewDataError(format string, args ...any) error {
	return &StageError{Kind: DataErrorKind, Err: fmt.Errorf(format, args...)}
}

// NewTrainingError wraps a single algorithm's fit failure. Recovered by
// excluding that model; fatal only if it eliminates all candidates.
func NewTrainingError(model string, err error) error {
	return &StageError{Kind: TrainingErrorKind, Err: fmt.Errorf("model %q: %w", model, err)}
}

// NewClusteringError wraps a clustering failure. Never fatal.
func NewClusteringError(format string, args ...any) error {
	return &StageError{Kind: ClusteringErrorKind, Err: fmt.Errorf(format, args...)}
}

// NewAnomalyError wraps an anomaly-detection failure. Never fatal.
func NewAnomalyError(format string, args ...any) error {
	return &StageError{Kind: AnomalyErrorKind, Err: fmt.Errorf(format, args...)}
}

// NewExplainError wraps an explainability failure. Never fatal.
func NewExplainError(format string, args ...any) error {
	return &StageError{Kind: ExplainErrorKind, Err: fmt.Errorf(format, args...)}
}

// IsKind reports whether err is a StageError of the given kind.
func IsKind(err error, kind StageErrorKind) bool {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}
