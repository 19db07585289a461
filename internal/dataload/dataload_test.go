package dataload

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gridscope/gridscope/internal/contract"
	"github.com/gridscope/gridscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadConfig(dataFile string) *contract.Config {
	return &contract.Config{
		DataFile:        dataFile,
		TargetColumn:    contract.DefaultTargetColumn,
		TimestampColumn: contract.DefaultTimestampColumn,
		GroupColumn:     contract.DefaultGroupColumn,
		Seed:            contract.DefaultSeed,
		SyntheticRows:   contract.DefaultSyntheticRows,
	}
}

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "load.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeTempCSV(t, `timestamp,region,load_mw,temperature
2024-01-01T00:00:00Z,SE/CO,70210.5,24.1
2024-01-01T01:00:00Z,SE/CO,69850.2,23.8
2024-01-01 02:00:00,S,55010.0,21.0
`)
	source := NewSource(loadConfig(path))
	observations, err := source.GetTrainingData(context.Background())
	require.NoError(t, err)
	require.Len(t, observations, 3)

	first := observations[0]
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), first.Timestamp)
	assert.Equal(t, "SE/CO", first.Group)
	assert.InDelta(t, 70210.5, first.Target, 1e-9)
	assert.InDelta(t, 24.1, first.Exogenous["temperature"], 1e-9)

	// Space-separated timestamps parse too.
	assert.Equal(t, "S", observations[2].Group)
}

func TestReadCSVMissingColumns(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no target", "timestamp,region,power"},
		{"no timestamp", "time,region,load_mw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempCSV(t, tt.header+"\n")
			_, err := NewSource(loadConfig(path)).GetTrainingData(context.Background())
			require.Error(t, err)
			assert.True(t, contract.IsKind(err, contract.DataErrorKind))
		})
	}
}

func TestReadCSVBadTarget(t *testing.T) {
	path := writeTempCSV(t, "timestamp,region,load_mw\n2024-01-01T00:00:00Z,SE/CO,not-a-number\n")
	_, err := NewSource(loadConfig(path)).GetTrainingData(context.Background())
	require.Error(t, err)
	assert.True(t, contract.IsKind(err, contract.DataErrorKind))
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadCSVWithoutGroupColumn(t *testing.T) {
	path := writeTempCSV(t, "timestamp,load_mw\n2024-01-01T00:00:00Z,70000\n")
	observations, err := NewSource(loadConfig(path)).GetTrainingData(context.Background())
	require.NoError(t, err)
	require.Len(t, observations, 1)
	assert.Empty(t, observations[0].Group)
}

func TestUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "load.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := NewSource(loadConfig(path)).GetTrainingData(context.Background())
	require.Error(t, err)
	assert.True(t, contract.IsKind(err, contract.DataErrorKind))
}

func TestParquetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "load.parquet")
	group := "SE/CO"
	temperature := 23.4
	source := []schema.Observation{
		{
			Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Group:     group,
			Target:    70123.0,
			Exogenous: map[string]float64{"temperature": temperature},
		},
		{
			Timestamp: time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC),
			Target:    69800.0,
		},
	}
	require.NoError(t, WriteParquet(source, path))

	observations, err := NewSource(loadConfig(path)).GetTrainingData(context.Background())
	require.NoError(t, err)
	require.Len(t, observations, 2)
	assert.Equal(t, group, observations[0].Group)
	assert.InDelta(t, 70123.0, observations[0].Target, 1e-9)
	assert.InDelta(t, temperature, observations[0].Exogenous["temperature"], 1e-9)
	assert.Empty(t, observations[1].Group)
	assert.NotContains(t, observations[1].Exogenous, "temperature")
}

func TestSyntheticSource(t *testing.T) {
	cfg := loadConfig("")
	cfg.Synthetic = true
	cfg.SyntheticRows = 500

	source := NewSource(cfg)
	_, ok := source.(*SyntheticSource)
	assert.True(t, ok)

	observations, err := source.GetTrainingData(context.Background())
	require.NoError(t, err)
	require.Len(t, observations, 500)

	// Hourly cadence, plausible magnitudes, all groups present.
	groups := make(map[string]bool)
	for i, obs := range observations {
		if i > 0 {
			assert.Equal(t, time.Hour, obs.Timestamp.Sub(observations[i-1].Timestamp))
		}
		assert.Greater(t, obs.Target, 50000.0)
		assert.Less(t, obs.Target, 90000.0)
		assert.Contains(t, obs.Exogenous, "temperature")
		assert.Contains(t, obs.Exogenous, "price")
		groups[obs.Group] = true
	}
	assert.Len(t, groups, 4)
}

func TestSyntheticSourceDeterministicForSeed(t *testing.T) {
	cfg := loadConfig("")
	cfg.Synthetic = true
	cfg.SyntheticRows = 100

	a, err := NewSyntheticSource(cfg).GetTrainingData(context.Background())
	require.NoError(t, err)
	b, err := NewSyntheticSource(cfg).GetTrainingData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSyntheticSourceHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := loadConfig("")
	cfg.Synthetic = true
	_, err := NewSyntheticSource(cfg).GetTrainingData(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
