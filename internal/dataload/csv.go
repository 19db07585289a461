package dataload

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gridscope/gridscope/internal/contract"
	"github.com/gridscope/gridscope/schema"
)

// timestampLayouts are tried in order when parsing the timestamp column.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// readCSV parses the configured CSV file into observations. The header
// must contain the timestamp and target columns; every other numeric
// column becomes an exogenous attribute, and the group column (when
// configured and present) becomes the grouping key.
func readCSV(cfg *contract.Config) ([]schema.Observation, error) {
	file, err := os.Open(cfg.DataFile)
	if err != nil {
		return nil, contract.NewDataError("cannot open data file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, contract.NewDataError("cannot read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	tsCol := columnIndex(header, cfg.TimestampColumn)
	targetCol := columnIndex(header, cfg.TargetColumn)
	groupCol := -1
	if cfg.GroupColumn != "" {
		groupCol = columnIndex(header, cfg.GroupColumn)
	}
	if tsCol < 0 {
		return nil, contract.NewDataError(
			"timestamp column %q not found in CSV header", cfg.TimestampColumn)
	}
	if targetCol < 0 {
		return nil, contract.NewDataError(
			"target column %q not found in CSV header", cfg.TargetColumn)
	}

	var observations []schema.Observation
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, contract.NewDataError("CSV line %d: %w", line, err)
		}

		ts, err := parseTimestamp(record[tsCol])
		if err != nil {
			return nil, contract.NewDataError("CSV line %d: %w", line, err)
		}
		target, err := strconv.ParseFloat(strings.TrimSpace(record[targetCol]), 64)
		if err != nil {
			return nil, contract.NewDataError(
				"CSV line %d: target %q is not numeric", line, record[targetCol])
		}

		obs := schema.Observation{Timestamp: ts, Target: target}
		if groupCol >= 0 {
			obs.Group = strings.TrimSpace(record[groupCol])
		}
		for i, cell := range record {
			if i == tsCol || i == targetCol || i == groupCol {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				continue // non-numeric extras are ignored
			}
			if obs.Exogenous == nil {
				obs.Exogenous = make(map[string]float64)
			}
			obs.Exogenous[header[i]] = v
		}
		observations = append(observations, obs)
	}
	return observations, nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp %q matches no supported layout", s)
}
