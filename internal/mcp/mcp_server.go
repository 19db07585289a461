// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/gridscope/gridscope/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Gridscope MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"Gridscope Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
	}

	// --- 1. Tool: run_pipeline ---
	s.AddTool(mcp.NewTool("run_pipeline",
		mcp.WithDescription("Run the full load analysis pipeline: feature engineering, model training, diagnostics, clustering, anomaly detection and attribution."),
		mcp.WithString("data_file", mcp.Description("Path to the observation file (CSV or Parquet). Omit to use the synthetic series.")),
		mcp.WithBoolean("synthetic", mcp.Description("Generate a seeded synthetic load series instead of reading a file.")),
		mcp.WithNumber("workers", mcp.Description("Number of concurrent model fits.")),
	), h.handleRunPipeline)

	// --- 2. Tool: train_models ---
	s.AddTool(mcp.NewTool("train_models",
		mcp.WithDescription("Train the regression model registry on a load series and rank the fits by held-out test error."),
		mcp.WithString("data_file", mcp.Description("Path to the observation file (CSV or Parquet).")),
		mcp.WithBoolean("synthetic", mcp.Description("Generate a seeded synthetic load series instead of reading a file.")),
		mcp.WithNumber("cv_folds", mcp.Description("Number of time-series cross-validation folds.")),
		mcp.WithNumber("test_fraction", mcp.Description("Chronological tail fraction held out for testing, in (0, 0.5).")),
	), h.handleTrainModels)

	// --- 3. Tool: cluster_load ---
	s.AddTool(mcp.NewTool("cluster_load",
		mcp.WithDescription("Segment the load observations into consumption-pattern clusters with per-cluster profiles."),
		mcp.WithString("data_file", mcp.Description("Path to the observation file (CSV or Parquet).")),
		mcp.WithBoolean("synthetic", mcp.Description("Generate a seeded synthetic load series instead of reading a file.")),
		mcp.WithNumber("clusters", mcp.Description("Number of clusters to form. Must be at least 2.")),
	), h.handleClusterLoad)

	// --- 4. Tool: detect_anomalies ---
	s.AddTool(mcp.NewTool("detect_anomalies",
		mcp.WithDescription("Flag anomalous readings in the load series with an isolation forest."),
		mcp.WithString("data_file", mcp.Description("Path to the observation file (CSV or Parquet).")),
		mcp.WithBoolean("synthetic", mcp.Description("Generate a seeded synthetic load series instead of reading a file.")),
		mcp.WithNumber("contamination", mcp.Description("Expected anomalous fraction of rows, in (0, 0.5).")),
	), h.handleDetectAnomalies)

	// --- 5. Tool: explain_model ---
	s.AddTool(mcp.NewTool("explain_model",
		mcp.WithDescription("Train the registry and rank the features driving the winning model's predictions."),
		mcp.WithString("data_file", mcp.Description("Path to the observation file (CSV or Parquet).")),
		mcp.WithBoolean("synthetic", mcp.Description("Generate a seeded synthetic load series instead of reading a file.")),
		mcp.WithNumber("sample_size", mcp.Description("Row cap for permutation importance computation.")),
	), h.handleExplainModel)

	return s
}

// StartMCPServer starts the Gridscope MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg)
	return server.ServeStdio(s)
}
