// Package main provides the MCP server command.
package main

import (
	"github.com/spf13/cobra"

	"github.com/blockhaven/craftctl/internal/config"
	"github.com/blockhaven/craftctl/internal/mcp"
)

// mcpCmd runs the MCP server over stdio.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server for AI assistants",
	Long: `Run a Model Context Protocol server over stdio.

Exposes instance management (list, status, start/stop/restart, console
commands, logs, create/delete) as MCP tools so AI assistants can operate
the fleet. Point your assistant's MCP config at "craftctl mcp".`,
	RunE: runMCP,
}

// runMCP handles the mcp command.
func runMCP(cmd *cobra.Command, args []string) error {
	cfg, client := loadConfigAndClient(cmd)

	server := mcp.NewServer(client, config.NewAliasTable(cfg.Aliases), version)
	return server.Run(cmd.Context())
}
