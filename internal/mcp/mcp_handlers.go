package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gridscope/gridscope/core"
	"github.com/gridscope/gridscope/internal/contract"
	"github.com/gridscope/gridscope/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
}

// cloneWithSource applies the shared data-source arguments onto a config
// copy. An explicit data_file always wins over the synthetic toggle.
func (h *toolHandler) cloneWithSource(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if f := request.GetString("data_file", ""); f != "" {
		cfg.DataFile = f
		cfg.Synthetic = false
	} else if request.GetBool("synthetic", false) {
		cfg.Synthetic = true
		if cfg.SyntheticRows <= 0 {
			cfg.SyntheticRows = contract.DefaultSyntheticRows
		}
	}
	if cfg.DataFile == "" && !cfg.Synthetic {
		return nil, fmt.Errorf("a data_file is required unless synthetic is set")
	}
	return cfg, nil
}

func (h *toolHandler) handleRunPipeline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.cloneWithSource(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid pipeline parameters: %v", err)), nil
	}
	if w := request.GetInt("workers", 0); w > 0 {
		cfg.Workers = w
	}

	report := core.GetPipelineReport(ctx, cfg)
	if report.Status == schema.StatusError {
		return mcp.NewToolResultError(fmt.Sprintf("pipeline failed: %s", report.Error)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleTrainModels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.cloneWithSource(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid training parameters: %v", err)), nil
	}
	if folds := request.GetInt("cv_folds", 0); folds > 0 {
		cfg.CVFolds = folds
	}
	if frac := request.GetFloat("test_fraction", 0); frac > 0 {
		cfg.TestFraction = frac
	}

	results, bestModel, err := core.GetModelResults(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("training failed: %v", err)), nil
	}

	output := struct {
		BestModel string                        `json:"best_model"`
		Models    map[string]schema.ModelResult `json:"models"`
	}{BestModel: bestModel, Models: results}
	jsonData, _ := json.MarshalIndent(output, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleClusterLoad(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.cloneWithSource(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid clustering parameters: %v", err)), nil
	}
	if k := request.GetInt("clusters", 0); k > 0 {
		cfg.Clusters = k
	}

	assignment, err := core.GetClusterResults(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("clustering failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(assignment, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleDetectAnomalies(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.cloneWithSource(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid anomaly parameters: %v", err)), nil
	}
	if c := request.GetFloat("contamination", 0); c > 0 {
		cfg.Contamination = c
	}

	flags, err := core.GetAnomalyResults(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("anomaly detection failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(flags, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleExplainModel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.cloneWithSource(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid attribution parameters: %v", err)), nil
	}
	if n := request.GetInt("sample_size", 0); n > 0 {
		cfg.SampleSize = n
	}

	attribution, err := core.GetAttributionResults(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("attribution failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(attribution, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
