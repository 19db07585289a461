package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/gridscope/gridscope/internal/contract"
	mcp_internal "github.com/gridscope/gridscope/internal/mcp"
	"github.com/gridscope/gridscope/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseTestConfig() *contract.Config {
	return &contract.Config{
		TargetColumn:    contract.DefaultTargetColumn,
		TimestampColumn: contract.DefaultTimestampColumn,
		LagOffsets:      []int{1, 24},
		RollingWindows:  []int{24},
		PeakStartHour:   contract.DefaultPeakStartHour,
		PeakEndHour:     contract.DefaultPeakEndHour,
		TestFraction:    contract.DefaultTestFraction,
		CVFolds:         contract.DefaultCVFolds,
		Clusters:        contract.DefaultClusters,
		Contamination:   contract.DefaultContamination,
		SampleSize:      contract.DefaultSampleSize,
		Seed:            contract.DefaultSeed,
		Workers:         2,
		OverfitGapRatio: contract.DefaultOverfitGapRatio,
		OverfitR2Gap:    contract.DefaultOverfitR2Gap,
		UnderfitR2:      contract.DefaultUnderfitR2,
		Output:          schema.TextOut,
		Precision:       contract.DefaultPrecision,
		StoreBackend:    schema.NoneBackend,
	}
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseTestConfig())

	ctx := context.Background()

	t.Run("train_models missing data source", func(t *testing.T) {
		tool := s.GetTool("train_models")
		require.NotNil(t, tool, "Tool train_models should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "train_models",
				Arguments: map[string]any{},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "data_file is required")
	})

	t.Run("detect_anomalies missing data source", func(t *testing.T) {
		tool := s.GetTool("detect_anomalies")
		require.NotNil(t, tool, "Tool detect_anomalies should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "detect_anomalies",
				Arguments: map[string]any{},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "data_file is required")
	})

	t.Run("train_models unreadable file", func(t *testing.T) {
		tool := s.GetTool("train_models")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "train_models",
				Arguments: map[string]any{
					"data_file": "/nonexistent/load.csv",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "training failed")
	})
}

func TestMCPServerHandlers_SyntheticSeries(t *testing.T) {
	cfg := baseTestConfig()
	cfg.SyntheticRows = 300
	s := mcp_internal.NewMCPServer(cfg)

	ctx := context.Background()

	t.Run("cluster_load on synthetic series", func(t *testing.T) {
		tool := s.GetTool("cluster_load")
		require.NotNil(t, tool, "Tool cluster_load should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "cluster_load",
				Arguments: map[string]any{
					"synthetic": true,
					"clusters":  3.0,
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		require.False(t, res.IsError, "clustering a synthetic series should succeed")

		var assignment schema.ClusterAssignment
		require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &assignment))
		assert.Equal(t, 3, assignment.ClusterCount)
		assert.Len(t, assignment.ClusterSizes, 3)
	})

	t.Run("detect_anomalies on synthetic series", func(t *testing.T) {
		tool := s.GetTool("detect_anomalies")
		require.NotNil(t, tool, "Tool detect_anomalies should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "detect_anomalies",
				Arguments: map[string]any{
					"synthetic": true,
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		require.False(t, res.IsError, "anomaly detection on a synthetic series should succeed")

		var flags schema.AnomalyFlag
		require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &flags))
		assert.Positive(t, flags.NumAnomalies)
	})
}
