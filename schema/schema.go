// Package schema has configs, models and shared types for all parts of gridscope.
package schema

import "time"

// Observation represents a single raw measurement from the acquisition layer.
// It combines a timestamp, an optional grouping key (e.g. region or subsystem),
// the measured target value, and arbitrary numeric exogenous attributes such as
// price or temperature. Observations are immutable once ingested.
type Observation struct {
	Timestamp time.Time          `json:"timestamp"`           // Time of the measurement
	Group     string             `json:"group,omitempty"`     // Grouping key, e.g. "SE/CO" or "S"
	Target    float64            `json:"target"`              // Measured target value, e.g. load in MW
	Exogenous map[string]float64 `json:"exogenous,omitempty"` // Additional numeric attributes
}

// Dataset is the mapping-preserving output of feature engineering: a feature
// matrix, a parallel target vector, and the ordered list of feature names.
// The name-to-column mapping is stable for the lifetime of the dataset.
type Dataset struct {
	FeatureNames []string    `json:"feature_names"` // Column names, index-aligned with X rows
	X            [][]float64 `json:"-"`             // Row-major feature matrix
	Y            []float64   `json:"-"`             // Target vector, parallel to X
	Timestamps   []time.Time `json:"-"`             // Per-row timestamps, parallel to X
	Groups       []string    `json:"-"`             // Per-row group keys, parallel to X
}

// NumRows returns the number of rows in the dataset.
func (d *Dataset) NumRows() int {
	return len(d.X)
}

// NumFeatures returns the number of feature columns.
func (d *Dataset) NumFeatures() int {
	return len(d.FeatureNames)
}

// ColumnIndex returns the column index for a feature name, or -1 if absent.
func (d *Dataset) ColumnIndex(name string) int {
	for i, n := range d.FeatureNames {
		if n == name {
			return i
		}
	}
	return -1
}

// Slice returns a row-range view of the dataset. The underlying arrays are
// shared with the parent; callers must not mutate them.
func (d *Dataset) Slice(start, end int) *Dataset {
	out := &Dataset{
		FeatureNames: d.FeatureNames,
		X:            d.X[start:end],
		Y:            d.Y[start:end],
	}
	if len(d.Timestamps) >= end {
		out.Timestamps = d.Timestamps[start:end]
	}
	if len(d.Groups) >= end {
		out.Groups = d.Groups[start:end]
	}
	return out
}

// DataSummary captures preparation metadata for the report: how many raw
// observations came in, how many rows survived feature engineering, and the
// covered time range.
type DataSummary struct {
	RawObservations int       `json:"raw_observations"`
	UsableRows      int       `json:"usable_rows"`
	DroppedRows     int       `json:"dropped_rows"`
	FeatureCount    int       `json:"feature_count"`
	Groups          []string  `json:"groups,omitempty"`
	RangeStart      time.Time `json:"range_start"`
	RangeEnd        time.Time `json:"range_end"`
}
