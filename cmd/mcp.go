package cmd

import (
	"github.com/gridscope/gridscope/internal/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Gridscope MCP server",
	Long:  `Launch an MCP server that allows AI agents to run load analysis via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// The MCP tools pick their own data source per call, so a missing
		// positional data file must not fail setup here.
		viper.Set("synthetic", true)
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
