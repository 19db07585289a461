// Package feature derives a leak-free feature matrix from raw observations.
package feature

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/gridscope/gridscope/internal/contract"
	"github.com/gridscope/gridscope/schema"
	"gonum.org/v1/gonum/stat"
)

// Calendar feature names, in column order.
const (
	FeatureHour      = "hour"
	FeatureDayOfWeek = "day_of_week"
	FeatureMonth     = "month"
	FeatureIsWeekend = "is_weekend"
	FeatureIsPeak    = "is_peak_hour"
	FeatureGroup     = "group_encoded"
)

// Options controls feature derivation.
type Options struct {
	LagOffsets     []int // Lag steps for target-derived features
	RollingWindows []int // Trailing window sizes for rolling statistics
	PeakStartHour  int   // First hour of the peak demand window (inclusive)
	PeakEndHour    int   // Last hour of the peak demand window (inclusive)
}

// OptionsFromConfig builds derivation options from a validated config.
func OptionsFromConfig(cfg *contract.Config) *Options {
	return &Options{
		LagOffsets:     cfg.LagOffsets,
		RollingWindows: cfg.RollingWindows,
		PeakStartHour:  cfg.PeakStartHour,
		PeakEndHour:    cfg.PeakEndHour,
	}
}

// Engineer turns a raw observation series into a training-ready dataset.
//
// Calendar features are pure functions of the timestamp. Lag features shift
// the target within the same group, preserving temporal order; they stay
// undefined until enough history exists. Rolling statistics cover the
// trailing window inclusive of the current row with a minimum-periods policy
// of 1. No row ever references a value positioned later in time than its own
// timestamp, and rows with any undefined feature are dropped before training.
//
// The transform is pure: re-running on identical input yields identical output.
func Engineer(observations []schema.Observation, opts *Options) (*schema.Dataset, *schema.DataSummary, error) {
	if len(observations) == 0 {
		return nil, nil, contract.NewDataError("observation series is empty")
	}

	maxLag := 0
	for _, lag := range opts.LagOffsets {
		if lag > maxLag {
			maxLag = lag
		}
	}
	if len(observations) < maxLag+1 {
		return nil, nil, contract.NewDataError(
			"need at least %d observations for max lag %d (received %d)",
			maxLag+1, maxLag, len(observations))
	}

	// Ordering is a correctness requirement, not an optimization: lags and
	// rolling windows assume strictly non-decreasing time within each group.
	obs := make([]schema.Observation, len(observations))
	copy(obs, observations)
	sort.SliceStable(obs, func(i, j int) bool {
		return obs[i].Timestamp.Before(obs[j].Timestamp)
	})

	exoNames := collectExogenousNames(obs)
	exoMedians := computeExogenousMedians(obs, exoNames)
	groupCodes := encodeGroups(obs)

	names := buildFeatureNames(opts, exoNames, groupCodes != nil)

	// Per-group trailing state for lag and rolling computation.
	histories := make(map[string][]float64)

	rows := make([][]float64, 0, len(obs))
	targets := make([]float64, 0, len(obs))
	timestamps := make([]time.Time, 0, len(obs))
	groups := make([]string, 0, len(obs))
	dropped := 0

	for _, o := range obs {
		history := histories[o.Group]
		row := make([]float64, 0, len(names))

		// --- 1. Calendar features ---
		row = append(row, calendarFeatures(o.Timestamp, opts)...)

		// --- 2. Group encoding ---
		if groupCodes != nil {
			row = append(row, float64(groupCodes[o.Group]))
		}

		// --- 3. Exogenous attributes, median-filled when absent ---
		for _, name := range exoNames {
			if v, ok := o.Exogenous[name]; ok {
				row = append(row, v)
			} else {
				row = append(row, exoMedians[name])
			}
		}

		// --- 4. Lag features (strictly undefined without enough history) ---
		for _, lag := range opts.LagOffsets {
			if len(history) >= lag {
				row = append(row, history[len(history)-lag])
			} else {
				row = append(row, math.NaN())
			}
		}

		// --- 5. Rolling statistics over the trailing window, current row included ---
		withCurrent := append(history, o.Target)
		for _, w := range opts.RollingWindows {
			windowed := trailingWindow(withCurrent, w)
			mean, std := meanStd(windowed)
			row = append(row, mean, std)
		}

		histories[o.Group] = withCurrent

		if hasNaN(row) {
			dropped++
			continue
		}
		rows = append(rows, row)
		targets = append(targets, o.Target)
		timestamps = append(timestamps, o.Timestamp)
		groups = append(groups, o.Group)
	}

	if len(rows) == 0 {
		return nil, nil, contract.NewDataError(
			"feature engineering dropped all %d rows; not enough history for lags %v",
			len(obs), opts.LagOffsets)
	}

	dataset := &schema.Dataset{
		FeatureNames: names,
		X:            rows,
		Y:            targets,
		Timestamps:   timestamps,
		Groups:       groups,
	}
	summary := &schema.DataSummary{
		RawObservations: len(obs),
		UsableRows:      len(rows),
		DroppedRows:     dropped,
		FeatureCount:    len(names),
		Groups:          sortedGroupNames(groupCodes),
		RangeStart:      obs[0].Timestamp,
		RangeEnd:        obs[len(obs)-1].Timestamp,
	}
	return dataset, summary, nil
}

// calendarFeatures derives the pure-timestamp features.
func calendarFeatures(ts time.Time, opts *Options) []float64 {
	hour := ts.Hour()
	dow := int(ts.Weekday())

	isWeekend := 0.0
	if ts.Weekday() == time.Saturday || ts.Weekday() == time.Sunday {
		isWeekend = 1.0
	}
	isPeak := 0.0
	if hour >= opts.PeakStartHour && hour <= opts.PeakEndHour {
		isPeak = 1.0
	}
	return []float64{float64(hour), float64(dow), float64(ts.Month()), isWeekend, isPeak}
}

// buildFeatureNames assembles the stable column ordering.
func buildFeatureNames(opts *Options, exoNames []string, hasGroups bool) []string {
	names := []string{FeatureHour, FeatureDayOfWeek, FeatureMonth, FeatureIsWeekend, FeatureIsPeak}
	if hasGroups {
		names = append(names, FeatureGroup)
	}
	names = append(names, exoNames...)
	for _, lag := range opts.LagOffsets {
		names = append(names, lagFeatureName(lag))
	}
	for _, w := range opts.RollingWindows {
		names = append(names, rollingMeanName(w), rollingStdName(w))
	}
	return names
}

// lagFeatureName names a lag column, e.g. "load_lag_24".
func lagFeatureName(lag int) string {
	return "load_lag_" + strconv.Itoa(lag)
}

// rollingMeanName names a rolling-mean column, e.g. "load_ma_24".
func rollingMeanName(w int) string {
	return "load_ma_" + strconv.Itoa(w)
}

// rollingStdName names a rolling-std column, e.g. "load_std_24".
func rollingStdName(w int) string {
	return "load_std_" + strconv.Itoa(w)
}

// collectExogenousNames returns the sorted union of exogenous attribute names.
func collectExogenousNames(obs []schema.Observation) []string {
	seen := make(map[string]bool)
	for _, o := range obs {
		for name := range o.Exogenous {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// computeExogenousMedians computes per-attribute medians for fill-in values.
func computeExogenousMedians(obs []schema.Observation, names []string) map[string]float64 {
	medians := make(map[string]float64, len(names))
	for _, name := range names {
		var values []float64
		for _, o := range obs {
			if v, ok := o.Exogenous[name]; ok {
				values = append(values, v)
			}
		}
		medians[name] = median(values)
	}
	return medians
}

// encodeGroups assigns a stable integer code per group key, sorted by name.
// Returns nil when no observation carries a group key.
func encodeGroups(obs []schema.Observation) map[string]int {
	seen := make(map[string]bool)
	for _, o := range obs {
		if o.Group != "" {
			seen[o.Group] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	codes := make(map[string]int, len(names))
	for i, name := range names {
		codes[name] = i
	}
	return codes
}

// sortedGroupNames lists the encoded group names in code order.
func sortedGroupNames(codes map[string]int) []string {
	if codes == nil {
		return nil
	}
	names := make([]string, len(codes))
	for name, code := range codes {
		names[code] = name
	}
	return names
}

// trailingWindow returns the last w values of the series (fewer when the
// series is shorter, which implements the minimum-periods policy of 1).
func trailingWindow(values []float64, w int) []float64 {
	if len(values) <= w {
		return values
	}
	return values[len(values)-w:]
}

// meanStd computes the mean and sample standard deviation of the window.
// A single-element window yields a zero deviation rather than an undefined one.
func meanStd(values []float64) (float64, float64) {
	mean := stat.Mean(values, nil)
	if len(values) < 2 {
		return mean, 0
	}
	return mean, stat.StdDev(values, nil)
}

// median computes the middle value of an unsorted slice. Empty input yields 0.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}

// hasNaN reports whether any feature in the row is undefined.
func hasNaN(row []float64) bool {
	for _, v := range row {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
