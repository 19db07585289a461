package contract

import (
	"context"

	"github.com/gridscope/gridscope/schema"
	"github.com/stretchr/testify/mock"
)

// MockDataSource is a mock implementation of DataSource for testing.
type MockDataSource struct {
	mock.Mock
}

var _ DataSource = &MockDataSource{} // Compile-time check

// GetTrainingData implements the DataSource interface.
func (m *MockDataSource) GetTrainingData(ctx context.Context) ([]schema.Observation, error) {
	args := m.Called(ctx)
	observations, _ := args.Get(0).([]schema.Observation)
	return observations, args.Error(1)
}

// MockArtifactStore is a mock implementation of ArtifactStore for testing.
type MockArtifactStore struct {
	mock.Mock
}

var _ ArtifactStore = &MockArtifactStore{} // Compile-time check

// Save implements the ArtifactStore interface.
func (m *MockArtifactStore) Save(artifact *schema.ModelArtifact) (string, error) {
	args := m.Called(artifact)
	return args.String(0), args.Error(1)
}

// Load implements the ArtifactStore interface.
func (m *MockArtifactStore) Load(modelName string) (*schema.ModelArtifact, error) {
	args := m.Called(modelName)
	artifact, _ := args.Get(0).(*schema.ModelArtifact)
	return artifact, args.Error(1)
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(configParams map[string]any) (int64, error) {
	args := m.Called(configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID int64, status schema.PipelineStatus, numModels int) error {
	args := m.Called(runID, status, numModels)
	return args.Error(0)
}

// RecordModel implements the RunStore interface.
func (m *MockRunStore) RecordModel(runID int64, rec *schema.ModelMetricsRecord) error {
	args := m.Called(runID, rec)
	return args.Error(0)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (*schema.RunStatus, error) {
	args := m.Called()
	status, _ := args.Get(0).(*schema.RunStatus)
	return status, args.Error(1)
}

// GetRuns implements the RunStore interface.
func (m *MockRunStore) GetRuns() ([]schema.PipelineRunRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.PipelineRunRecord)
	return records, args.Error(1)
}

// GetModelMetrics implements the RunStore interface.
func (m *MockRunStore) GetModelMetrics() ([]schema.ModelMetricsRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.ModelMetricsRecord)
	return records, args.Error(1)
}

// Clear implements the RunStore interface.
func (m *MockRunStore) Clear() error {
	return m.Called().Error(0)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	return m.Called().Error(0)
}

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ StoreManager = &MockStoreManager{} // Compile-time check

// GetRunStore implements the StoreManager interface.
func (m *MockStoreManager) GetRunStore() RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(RunStore)
	return store
}

// GetArtifactStore implements the StoreManager interface.
func (m *MockStoreManager) GetArtifactStore() ArtifactStore {
	ret := m.Called()
	store, _ := ret.Get(0).(ArtifactStore)
	return store
}
