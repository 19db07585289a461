package schema

import "time"

// StepResult records one pipeline stage's outcome in the steps log.
// Every stage appends exactly one entry regardless of success or failure.
type StepResult struct {
	Stage  Stage  `json:"stage"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail"`          // Human-readable outcome message
	Error  string `json:"error,omitempty"` // Failure reason when OK is false
}

// PipelineReport is the single structured output of a pipeline run. Callers
// always receive a well-formed report; a missing optional section signals
// that stage's failure without blocking the sections that did succeed.
type PipelineReport struct {
	Status    PipelineStatus         `json:"status"`
	Error     string                 `json:"error,omitempty"` // Fatal failure reason
	Steps     []StepResult           `json:"steps"`
	Data      *DataSummary           `json:"data,omitempty"`
	Models    map[string]ModelResult `json:"models,omitempty"`
	BestModel string                 `json:"best_model,omitempty"`

	// Optional sections: nil plus a reason when the stage failed non-fatally.
	Clustering            *ClusterAssignment  `json:"clustering,omitempty"`
	ClusteringError       string              `json:"clustering_error,omitempty"`
	Anomalies             *AnomalyFlag        `json:"anomalies,omitempty"`
	AnomaliesError        string              `json:"anomalies_error,omitempty"`
	Interpretability      *FeatureAttribution `json:"interpretability,omitempty"`
	InterpretabilityError string              `json:"interpretability_error,omitempty"`

	ArtifactPath string        `json:"model_artifact_path,omitempty"`
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"duration"`
}

// AppendStep records a stage outcome in the steps log.
func (r *PipelineReport) AppendStep(stage Stage, ok bool, detail string, err error) {
	step := StepResult{Stage: stage, OK: ok, Detail: detail}
	if err != nil {
		step.Error = err.Error()
	}
	r.Steps = append(r.Steps, step)
}

// ModelArtifact is the serialized form of the winning model and its paired
// scaler, written to durable storage keyed by model name and pipeline run.
type ModelArtifact struct {
	ModelName    string         `json:"model_name"`
	RunID        int64          `json:"run_id,omitempty"`
	FeatureNames []string       `json:"feature_names"`
	ScalerMeans  []float64      `json:"scaler_means,omitempty"`
	ScalerStds   []float64      `json:"scaler_stds,omitempty"`
	Params       map[string]any `json:"params"` // Model-specific fitted parameters
	SavedAt      time.Time      `json:"saved_at"`
}
