package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/0xcro3dile/hybridrag-go/internal/infrastructure/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs HybridRAG as an MCP (Model Context Protocol) server over stdio,
exposing the ask and reload_index tools to LLM agents.`,
		Example: `  # Start MCP server (typically launched by an MCP client)
  hybridrag mcp

  # Client configuration:
  # {
  #   "mcpServers": {
  #     "hybridrag": {
  #       "command": "hybridrag",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
		Args: cobra.NoArgs,
		RunE: runMCP,
	}
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	server := mcpserver.NewMCPServer("HybridRAG", versionInfo.Version)
	mcp.RegisterTools(server, a.Hybrid, a.Ingest, a.Config.Index.DataDir)

	if !quiet {
		log.Println("[INFO] HybridRAG MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("[INFO] Shutdown signal received")
		}
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}
	return nil
}
