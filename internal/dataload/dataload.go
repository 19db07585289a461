// Package dataload implements the observation sources feeding the pipeline:
// CSV files, Parquet files and a seeded synthetic generator.
package dataload

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/gridscope/gridscope/internal/contract"
	"github.com/gridscope/gridscope/schema"
)

// NewSource builds the configured observation source: the synthetic
// generator when --synthetic is set, otherwise a file reader picked by
// extension.
func NewSource(cfg *contract.Config) contract.DataSource {
	if cfg.Synthetic {
		return NewSyntheticSource(cfg)
	}
	return &FileSource{cfg: cfg}
}

// FileSource reads observations from a CSV or Parquet file on disk.
type FileSource struct {
	cfg *contract.Config
}

var _ contract.DataSource = &FileSource{} // Compile-time check

// GetTrainingData dispatches on the file extension.
func (s *FileSource) GetTrainingData(ctx context.Context) ([]schema.Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(s.cfg.DataFile)) {
	case ".csv":
		return readCSV(s.cfg)
	case ".parquet":
		return readParquet(s.cfg.DataFile)
	default:
		return nil, contract.NewDataError(
			"unsupported data file %q: expected a .csv or .parquet extension", s.cfg.DataFile)
	}
}
