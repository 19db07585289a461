package feature

import (
	"testing"
	"time"

	"github.com/gridscope/gridscope/internal/contract"
	"github.com/gridscope/gridscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// defaultOptions returns small lags/windows suited for short test series.
func defaultOptions() *Options {
	return &Options{
		LagOffsets:     []int{1, 2},
		RollingWindows: []int{3},
		PeakStartHour:  18,
		PeakEndHour:    21,
	}
}

// hourlySeries builds n hourly observations for one group with target i+1.
func hourlySeries(n int, group string) []schema.Observation {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	obs := make([]schema.Observation, n)
	for i := range n {
		obs[i] = schema.Observation{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Group:     group,
			Target:    float64(i + 1),
		}
	}
	return obs
}

func TestEngineerEmptyInput(t *testing.T) {
	_, _, err := Engineer(nil, defaultOptions())
	require.Error(t, err)
	assert.True(t, contract.IsKind(err, contract.DataErrorKind))
}

func TestEngineerInsufficientRows(t *testing.T) {
	obs := hourlySeries(2, "SE/CO")
	opts := defaultOptions()
	opts.LagOffsets = []int{24}

	_, _, err := Engineer(obs, opts)
	require.Error(t, err)
	assert.True(t, contract.IsKind(err, contract.DataErrorKind))
}

func TestEngineerLagValues(t *testing.T) {
	obs := hourlySeries(10, "SE/CO")
	ds, summary, err := Engineer(obs, defaultOptions())
	require.NoError(t, err)

	// First two rows lack lag-2 history and are dropped.
	assert.Equal(t, 8, ds.NumRows())
	assert.Equal(t, 2, summary.DroppedRows)

	lag1 := ds.ColumnIndex("load_lag_1")
	lag2 := ds.ColumnIndex("load_lag_2")
	require.GreaterOrEqual(t, lag1, 0)
	require.GreaterOrEqual(t, lag2, 0)

	// Surviving row 0 is the original third observation (target 3).
	assert.InDelta(t, 3.0, ds.Y[0], 1e-9)
	assert.InDelta(t, 2.0, ds.X[0][lag1], 1e-9)
	assert.InDelta(t, 1.0, ds.X[0][lag2], 1e-9)
}

func TestEngineerNoLookaheadLeakage(t *testing.T) {
	obs := hourlySeries(30, "SE/CO")
	ds, _, err := Engineer(obs, defaultOptions())
	require.NoError(t, err)

	lag1 := ds.ColumnIndex("load_lag_1")
	ma3 := ds.ColumnIndex("load_ma_3")
	require.GreaterOrEqual(t, lag1, 0)
	require.GreaterOrEqual(t, ma3, 0)

	for i := range ds.X {
		// Targets are strictly increasing in time, so any feature referencing
		// the future would exceed the current target.
		assert.Less(t, ds.X[i][lag1], ds.Y[i], "lag feature must come from the past")
		assert.LessOrEqual(t, ds.X[i][ma3], ds.Y[i], "rolling mean must only cover trailing values")
	}
}

func TestEngineerGroupIsolation(t *testing.T) {
	// Interleave two groups; lags must never cross group boundaries.
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var obs []schema.Observation
	for i := range 12 {
		group := "S"
		base := 1000.0
		if i%2 == 0 {
			group = "SE/CO"
			base = 10.0
		}
		obs = append(obs, schema.Observation{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Group:     group,
			Target:    base + float64(i),
		})
	}

	opts := defaultOptions()
	opts.LagOffsets = []int{1}
	opts.RollingWindows = []int{2}

	ds, _, err := Engineer(obs, opts)
	require.NoError(t, err)

	lag1 := ds.ColumnIndex("load_lag_1")
	for i := range ds.X {
		lagged := ds.X[i][lag1]
		if ds.Groups[i] == "SE/CO" {
			assert.Less(t, lagged, 100.0, "SE/CO lag must come from SE/CO history")
		} else {
			assert.Greater(t, lagged, 100.0, "S lag must come from S history")
		}
	}
}

func TestEngineerCalendarFeatures(t *testing.T) {
	// 2024-01-06 is a Saturday; 19:00 is inside the default peak window.
	obs := []schema.Observation{
		{Timestamp: time.Date(2024, 1, 6, 19, 0, 0, 0, time.UTC), Target: 1},
		{Timestamp: time.Date(2024, 1, 6, 20, 0, 0, 0, time.UTC), Target: 2},
		{Timestamp: time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC), Target: 3},
	}
	opts := &Options{LagOffsets: []int{1}, RollingWindows: []int{2}, PeakStartHour: 18, PeakEndHour: 21}

	ds, _, err := Engineer(obs, opts)
	require.NoError(t, err)
	require.Equal(t, 2, ds.NumRows())

	hour := ds.ColumnIndex(FeatureHour)
	weekend := ds.ColumnIndex(FeatureIsWeekend)
	peak := ds.ColumnIndex(FeatureIsPeak)
	dow := ds.ColumnIndex(FeatureDayOfWeek)

	// Row 0: Saturday 20:00.
	assert.InDelta(t, 20, ds.X[0][hour], 1e-9)
	assert.InDelta(t, 1, ds.X[0][weekend], 1e-9)
	assert.InDelta(t, 1, ds.X[0][peak], 1e-9)
	assert.InDelta(t, 6, ds.X[0][dow], 1e-9)

	// Row 1: Monday 10:00.
	assert.InDelta(t, 10, ds.X[1][hour], 1e-9)
	assert.InDelta(t, 0, ds.X[1][weekend], 1e-9)
	assert.InDelta(t, 0, ds.X[1][peak], 1e-9)
}

func TestEngineerExogenousMedianFill(t *testing.T) {
	obs := hourlySeries(6, "SE/CO")
	obs[0].Exogenous = map[string]float64{"temperature": 20}
	obs[1].Exogenous = map[string]float64{"temperature": 30}
	obs[2].Exogenous = map[string]float64{"temperature": 40}
	// Remaining rows have no temperature reading.

	opts := defaultOptions()
	opts.LagOffsets = []int{1}

	ds, _, err := Engineer(obs, opts)
	require.NoError(t, err)

	tempIdx := ds.ColumnIndex("temperature")
	require.GreaterOrEqual(t, tempIdx, 0)

	// Dropped first row; surviving rows 3..5 of the original series carry the median.
	last := ds.NumRows() - 1
	assert.InDelta(t, 30.0, ds.X[last][tempIdx], 1e-9)
}

func TestEngineerDeterminism(t *testing.T) {
	obs := hourlySeries(50, "SE/CO")
	for i := range obs {
		obs[i].Exogenous = map[string]float64{"price": float64(100 + i), "temperature": 25}
	}

	a, _, err := Engineer(obs, defaultOptions())
	require.NoError(t, err)
	b, _, err := Engineer(obs, defaultOptions())
	require.NoError(t, err)

	assert.Equal(t, a.FeatureNames, b.FeatureNames)
	assert.Equal(t, a.X, b.X)
	assert.Equal(t, a.Y, b.Y)
}

func TestEngineerRollingMinPeriods(t *testing.T) {
	obs := hourlySeries(5, "SE/CO")
	opts := &Options{LagOffsets: []int{1}, RollingWindows: []int{3}, PeakStartHour: 18, PeakEndHour: 21}

	ds, _, err := Engineer(obs, opts)
	require.NoError(t, err)

	ma := ds.ColumnIndex("load_ma_3")
	// First surviving row (second observation): window covers {1, 2}.
	assert.InDelta(t, 1.5, ds.X[0][ma], 1e-9)
	// Third surviving row: full window {2, 3, 4}.
	assert.InDelta(t, 3.0, ds.X[2][ma], 1e-9)
}
