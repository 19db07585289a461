package contract

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind StageErrorKind
	}{
		{name: "data error", err: NewDataError("no rows"), kind: DataErrorKind},
		{name: "training error", err: NewTrainingError("random_forest", errors.New("singular matrix")), kind: TrainingErrorKind},
		{name: "clustering error", err: NewClusteringError("need %d samples", 4), kind: ClusteringErrorKind},
		{name: "anomaly error", err: NewAnomalyError("empty dataset"), kind: AnomalyErrorKind},
		{name: "explain error", err: NewExplainError("no model"), kind: ExplainErrorKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, IsKind(tt.err, tt.kind))
			assert.False(t, IsKind(tt.err, StageErrorKind("other")))
		})
	}
}

func TestStageErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewTrainingError("boost", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "model_training")
	assert.Contains(t, err.Error(), "boost")
}

func TestIsKindOnWrappedError(t *testing.T) {
	err := fmt.Errorf("stage boundary: %w", NewDataError("missing target column"))
	assert.True(t, IsKind(err, DataErrorKind))
	assert.False(t, IsKind(errors.New("plain"), DataErrorKind))
}
