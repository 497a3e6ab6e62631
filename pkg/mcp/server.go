// Package mcp serves the toolkit's Unity Catalog functions as MCP tools over
// stdio, SSE and streamable HTTP transports, with resource support for
// function definitions.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/unitycatalog-ai/bedrock-toolkit/pkg/api"
	"github.com/unitycatalog-ai/bedrock-toolkit/pkg/toolkit"
	"github.com/unitycatalog-ai/bedrock-toolkit/pkg/uc"
	"github.com/unitycatalog-ai/bedrock-toolkit/pkg/version"
)

type ContextKey string

// TokenScopesContextKey carries the OAuth scopes extracted by the HTTP
// authorization middleware into tool handlers.
const TokenScopesContextKey = ContextKey("TokenScopesContextKey")

// Configuration controls which tools the server exposes and how callers are
// authorized.
type Configuration struct {
	// EnabledTools, when non-nil, restricts the served tools to the listed
	// names.
	EnabledTools []string

	// DisabledTools removes the listed tool names from the served set.
	DisabledTools []string

	// RequiredScope, when set, is the OAuth scope a caller must carry to
	// invoke tools over HTTP transports.
	RequiredScope string

	// Logger is used for server diagnostics. When zero, logging is disabled.
	Logger zerolog.Logger
}

func (c *Configuration) isToolApplicable(name string) bool {
	if c.EnabledTools != nil && !slices.Contains(c.EnabledTools, name) {
		return false
	}
	if c.DisabledTools != nil && slices.Contains(c.DisabledTools, name) {
		return false
	}
	return true
}

// Server exposes a toolkit's functions, plus any extension toolsets, as an
// MCP server with tool and resource support.
type Server struct {
	configuration *Configuration
	server        *mcp.Server
	toolkit       *toolkit.UCFunctionToolkit
	executor      uc.FunctionExecutor
	enabledTools  []string
}

// NewServer creates an MCP server serving the toolkit's resolved functions.
// Tool calls are validated against the function's parameter schema and
// executed through the given catalog executor.
func NewServer(tk *toolkit.UCFunctionToolkit, executor uc.FunctionExecutor, cfg *Configuration, toolsets ...api.Toolset) (*Server, error) {
	if tk == nil {
		return nil, fmt.Errorf("toolkit is required")
	}
	if executor == nil {
		return nil, fmt.Errorf("catalog function executor is required")
	}
	if cfg == nil {
		cfg = &Configuration{}
	}

	s := &Server{
		configuration: cfg,
		toolkit:       tk,
		executor:      executor,
		server: mcp.NewServer(
			&mcp.Implementation{
				Name: version.BinaryName, Title: version.BinaryName, Version: version.Version,
			},
			&mcp.ServerOptions{
				HasResources: true,
				HasPrompts:   false,
				HasTools:     true,
			}),
	}

	s.server.AddReceivingMiddleware(toolCallLoggingMiddleware(cfg.Logger))
	if cfg.RequiredScope != "" {
		s.server.AddReceivingMiddleware(toolScopedAuthorizationMiddleware(cfg.RequiredScope))
	}

	s.registerFunctionTools()
	s.registerFunctionResources()
	if err := s.registerToolsets(toolsets); err != nil {
		return nil, err
	}
	return s, nil
}

// registerFunctionTools adds one MCP tool per resolved catalog function,
// subject to the enabled/disabled filters.
func (s *Server) registerFunctionTools() {
	for _, tool := range s.toolkit.Tools() {
		if !s.configuration.isToolApplicable(tool.Name) {
			continue
		}
		tool := tool
		s.server.AddTool(&mcp.Tool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.Parameters,
		}, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, err := argumentsMap(req)
			if err != nil {
				return NewTextResult("", err), nil
			}
			if err := tool.ValidateArguments(args); err != nil {
				return NewTextResult("", err), nil
			}
			result, err := s.executor.ExecuteFunction(ctx, tool.FunctionName, args)
			if err != nil {
				return NewTextResult("", err), nil
			}
			if result.Error != "" {
				return NewTextResult("", fmt.Errorf("catalog execution failed: %s", result.Error)), nil
			}
			return NewTextResult(result.Value, nil), nil
		})
		s.enabledTools = append(s.enabledTools, tool.Name)
	}
}

// registerToolsets adds tools and resources contributed by extension
// toolsets.
func (s *Server) registerToolsets(toolsets []api.Toolset) error {
	for _, toolset := range toolsets {
		for _, st := range toolset.GetTools() {
			if st.Tool == nil || st.Handler == nil {
				return fmt.Errorf("toolset %s contributed an incomplete tool", toolset.GetName())
			}
			if !s.configuration.isToolApplicable(st.Tool.Name) {
				continue
			}
			st := st
			s.server.AddTool(&mcp.Tool{
				Name:        st.Tool.Name,
				Description: st.Tool.Description,
				InputSchema: st.Tool.Parameters,
			}, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args, err := argumentsMap(req)
				if err != nil {
					return NewTextResult("", err), nil
				}
				if err := st.Tool.ValidateArguments(args); err != nil {
					return NewTextResult("", err), nil
				}
				out, err := st.Handler(ctx, args)
				return NewTextResult(out, err), nil
			})
			s.enabledTools = append(s.enabledTools, st.Tool.Name)
		}
		if resourceProvider, ok := toolset.(api.ResourceProvider); ok {
			if err := resourceProvider.RegisterResources(s.addResource); err != nil {
				return fmt.Errorf("failed to register resources for toolset %s: %w", toolset.GetName(), err)
			}
		}
	}
	return nil
}

// registerFunctionResources exposes each resolved function definition as a
// read-only MCP resource.
func (s *Server) registerFunctionResources() {
	for _, tool := range s.toolkit.Tools() {
		tool := tool
		uri := "ucfunction://" + tool.FunctionName
		_ = s.addResource(uri, tool.FunctionName, "application/json", func(context.Context) (string, error) {
			payload, err := json.MarshalIndent(tool, "", "  ")
			if err != nil {
				return "", err
			}
			return string(payload), nil
		})
	}
}

func (s *Server) addResource(uri, name, mimeType string, handler func(context.Context) (string, error)) error {
	resource := &mcp.Resource{
		URI:      uri,
		Name:     name,
		MIMEType: mimeType,
	}
	resourceHandler := func(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		content, err := handler(ctx)
		if err != nil {
			return nil, err
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: mimeType,
					Text:     content,
				},
			},
		}, nil
	}
	s.server.AddResource(resource, resourceHandler)
	return nil
}

// argumentsMap normalizes the call arguments regardless of how the transport
// delivered them.
func argumentsMap(req *mcp.CallToolRequest) (map[string]any, error) {
	raw := req.Params.Arguments
	if raw == nil {
		return map[string]any{}, nil
	}
	switch v := any(raw).(type) {
	case map[string]any:
		return v, nil
	case json.RawMessage:
		var args map[string]any
		if len(v) == 0 {
			return map[string]any{}, nil
		}
		if err := json.Unmarshal(v, &args); err != nil {
			return nil, fmt.Errorf("decode tool arguments: %w", err)
		}
		return args, nil
	default:
		payload, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("decode tool arguments: %w", err)
		}
		var args map[string]any
		if err := json.Unmarshal(payload, &args); err != nil {
			return nil, fmt.Errorf("decode tool arguments: %w", err)
		}
		return args, nil
	}
}

// ServeStdio serves the MCP server over stdio.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.LoggingTransport{Transport: &mcp.StdioTransport{}, Writer: os.Stderr})
}

// ServeSse returns an SSE handler.
func (s *Server) ServeSse() *mcp.SSEHandler {
	return mcp.NewSSEHandler(func(request *http.Request) *mcp.Server {
		return s.server
	}, &mcp.SSEOptions{})
}

// ServeHTTP returns a streamable HTTP handler.
func (s *Server) ServeHTTP() *mcp.StreamableHTTPHandler {
	return mcp.NewStreamableHTTPHandler(func(request *http.Request) *mcp.Server {
		return s.server
	}, &mcp.StreamableHTTPOptions{
		Stateless: false,
	})
}

// GetEnabledTools returns the list of enabled tools.
func (s *Server) GetEnabledTools() []string {
	return s.enabledTools
}

// NewTextResult creates a text result.
func NewTextResult(content string, err error) *mcp.CallToolResult {
	if err != nil {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{
					Text: err.Error(),
				},
			},
		}
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: content,
			},
		},
	}
}
