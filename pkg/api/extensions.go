// Package api defines the extension contracts that let local toolsets ride
// alongside Unity Catalog functions on the toolkit's serving surfaces.
package api

import (
	"context"

	"github.com/unitycatalog-ai/bedrock-toolkit/pkg/toolkit"
)

// ServerTool pairs a tool descriptor with the handler that executes it.
// Catalog functions get their handler from the catalog client; local
// toolsets supply their own.
type ServerTool struct {
	Tool    *toolkit.Tool
	Handler func(ctx context.Context, args map[string]any) (string, error)
}

// Toolset groups related tools under a name. Implementations are registered
// with the MCP server next to the toolkit's catalog functions.
type Toolset interface {
	// GetName returns the name of this toolset.
	GetName() string
	// GetDescription returns the description of this toolset.
	GetDescription() string
	// GetTools returns the tools this toolset contributes.
	GetTools() []ServerTool
}

// ResourceProvider is an optional interface that toolsets can implement to
// expose MCP resources. Resources provide read-only contextual information
// that LLMs can access, such as function definitions, documentation, or
// configuration data.
type ResourceProvider interface {
	Toolset
	// RegisterResources registers MCP resources with the server.
	// This method is called during server initialization if the toolset
	// implements this interface.
	RegisterResources(registerFunc func(uri, name, mimeType string, handler func(context.Context) (string, error)) error) error
}
