package dataload

import (
	"time"

	"github.com/gridscope/gridscope/internal/contract"
	"github.com/gridscope/gridscope/schema"
	"github.com/parquet-go/parquet-go"
)

// ObservationRecord is the Parquet row layout for observation files.
// The schema is derived from the struct tags; optional columns may be
// absent in the file.
type ObservationRecord struct {
	// Timestamp is the measurement time with nanosecond precision.
	Timestamp time.Time `parquet:"timestamp,snappy"`

	// Group is the optional grouping key, e.g. the subsystem name.
	Group *string `parquet:"group,optional,snappy"`

	// Target is the measured value, e.g. load in MW.
	Target float64 `parquet:"target,snappy"`

	// Temperature is an optional exogenous attribute in °C.
	Temperature *float64 `parquet:"temperature,optional,snappy"`

	// Price is an optional exogenous attribute, e.g. marginal cost.
	Price *float64 `parquet:"price,optional,snappy"`
}

// readParquet loads observations from a Parquet file written with the
// ObservationRecord layout.
func readParquet(path string) ([]schema.Observation, error) {
	records, err := parquet.ReadFile[ObservationRecord](path)
	if err != nil {
		return nil, contract.NewDataError("cannot read parquet file: %w", err)
	}
	observations := make([]schema.Observation, 0, len(records))
	for _, rec := range records {
		obs := schema.Observation{Timestamp: rec.Timestamp, Target: rec.Target}
		if rec.Group != nil {
			obs.Group = *rec.Group
		}
		if rec.Temperature != nil || rec.Price != nil {
			obs.Exogenous = make(map[string]float64)
			if rec.Temperature != nil {
				obs.Exogenous["temperature"] = *rec.Temperature
			}
			if rec.Price != nil {
				obs.Exogenous["price"] = *rec.Price
			}
		}
		observations = append(observations, obs)
	}
	return observations, nil
}

// WriteParquet exports observations with the ObservationRecord layout,
// mirroring what readParquet accepts.
func WriteParquet(observations []schema.Observation, path string) error {
	records := make([]ObservationRecord, 0, len(observations))
	for _, obs := range observations {
		rec := ObservationRecord{Timestamp: obs.Timestamp, Target: obs.Target}
		if obs.Group != "" {
			group := obs.Group
			rec.Group = &group
		}
		if v, ok := obs.Exogenous["temperature"]; ok {
			temperature := v
			rec.Temperature = &temperature
		}
		if v, ok := obs.Exogenous["price"]; ok {
			price := v
			rec.Price = &price
		}
		records = append(records, rec)
	}
	return parquet.WriteFile(path, records)
}
