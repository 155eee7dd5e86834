// Package mcp exposes the hybrid query pipeline as Model Context Protocol
// tools served over stdio.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/0xcro3dile/hybridrag-go/internal/domain/entities"
	"github.com/0xcro3dile/hybridrag-go/internal/domain/usecases"
)

// Asker answers one query.
type Asker interface {
	Ask(ctx context.Context, query string) entities.QueryResult
}

// Indexer rebuilds the local index from a folder.
type Indexer interface {
	IngestFolder(ctx context.Context, dir string, force bool) (*usecases.IngestReport, error)
}

// RegisterTools registers the ask tool and, when indexer is non-nil, the
// reload_index tool.
func RegisterTools(server *mcpserver.MCPServer, asker Asker, indexer Indexer, dataDir string) *Handlers {
	handlers := &Handlers{asker: asker, indexer: indexer, dataDir: dataDir}

	server.AddTool(mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the local document index, falling back to web search when no local passage is relevant enough. Returns the answer with its sources.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The question to answer",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.Ask)

	if indexer != nil {
		server.AddTool(mcp.Tool{
			Name:        "reload_index",
			Description: "Rebuild the local document index from the data folder.",
			InputSchema: mcp.ToolInputSchema{
				Type:       "object",
				Properties: map[string]interface{}{},
			},
		}, handlers.ReloadIndex)
	}

	return handlers
}
