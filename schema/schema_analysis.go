package schema

// ClusterAssignment is the output of the unsupervised segmentation stage.
type ClusterAssignment struct {
	ClusterCount    int         `json:"n_clusters"`       // Number of clusters requested
	Labels          []int       `json:"labels"`           // Per-observation cluster label
	SilhouetteScore float64     `json:"silhouette_score"` // Separation quality in [-1, 1]
	Inertia         float64     `json:"inertia"`          // Sum of squared distances to centroids
	ClusterSizes    []int       `json:"cluster_sizes"`    // Observation count per label
	Characteristics []string    `json:"characteristics"`  // Human-readable per-cluster summaries
	Centers         [][]float64 `json:"-"`                // Centroids in scaled feature space
}

// AnomalyFlag is the output of the outlier detection stage.
type AnomalyFlag struct {
	IsAnomaly    []bool    `json:"-"`            // Per-observation flag, parallel to the dataset
	Scores       []float64 `json:"-"`            // Per-observation anomaly score (lower = more anomalous)
	NumAnomalies int       `json:"n_anomalies"`  // Count of flagged observations
	AnomalyRate  float64   `json:"anomaly_rate"` // Flagged fraction of the dataset
	Summary      []string  `json:"summary"`      // Human-readable findings
}

// AttributionEntry is a single feature's contribution to the best model.
type AttributionEntry struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// FeatureAttribution is a ranked explanation of the best model's predictions,
// sorted descending by importance.
type FeatureAttribution struct {
	Method  string             `json:"method"`  // "tree_gain", "permutation" or "uniform"
	Entries []AttributionEntry `json:"entries"` // Sorted descending by importance
	Summary []string           `json:"summary"` // Human-readable highlights
}
