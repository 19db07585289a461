package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// PipelineStatus represents the overall state of a pipeline run.
	PipelineStatus string

	// Stage represents a named pipeline stage.
	Stage string

	// DatabaseBackend represents the database backend for run tracking.
	DatabaseBackend string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All pipeline statuses supported.
const (
	StatusRunning   PipelineStatus = "running"
	StatusCompleted PipelineStatus = "completed"
	StatusError     PipelineStatus = "error"
)

// All pipeline stages, in execution order.
const (
	StagePreparing  Stage = "preparing"
	StageFeatures   Stage = "feature_engineering"
	StageTraining   Stage = "model_training"
	StageDiagnosing Stage = "diagnosing"
	StageClustering Stage = "clustering"
	StageAnomalies  Stage = "anomaly_detection"
	StageExplaining Stage = "explaining"
	StagePersisting Stage = "persisting"
	StageDone       Stage = "done"
)

// All run store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid run store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// PipelineStages lists the stages in execution order, excluding the terminal one.
var PipelineStages = []Stage{
	StagePreparing,
	StageFeatures,
	StageTraining,
	StageDiagnosing,
	StageClustering,
	StageAnomalies,
	StageExplaining,
	StagePersisting,
}
