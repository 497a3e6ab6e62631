// Package toolkit adapts Unity Catalog function definitions into tool
// descriptors consumable by an AWS Bedrock agent. Function resolution,
// execution and agent reasoning are all delegated to external services; the
// toolkit owns only the descriptor mapping and the session wiring.
package toolkit

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/unitycatalog-ai/bedrock-toolkit/pkg/agent"
	"github.com/unitycatalog-ai/bedrock-toolkit/pkg/uc"
)

// UCFunctionToolkit is an ephemeral collection of catalog functions resolved
// into Bedrock tools. Construct one per set of functions; it holds no state
// beyond the resolved descriptors.
type UCFunctionToolkit struct {
	client       uc.FunctionClient
	runtime      agent.RuntimeClient
	confirmation RequireConfirmation
	maxTurns     int
	logger       zerolog.Logger

	tools map[string]*Tool
	order []string
}

// Option customizes toolkit construction.
type Option func(*UCFunctionToolkit)

// WithRuntime injects the Bedrock agent runtime client used by
// CreateSession. Without it, sessions are built against the ambient AWS
// configuration.
func WithRuntime(rc agent.RuntimeClient) Option {
	return func(tk *UCFunctionToolkit) { tk.runtime = rc }
}

// WithRequireConfirmation overrides the confirmation setting applied to
// every resolved tool.
func WithRequireConfirmation(rc RequireConfirmation) Option {
	return func(tk *UCFunctionToolkit) { tk.confirmation = rc }
}

// WithMaxTurns bounds the return-control loop of sessions created by
// CreateSession. Zero keeps the session default.
func WithMaxTurns(n int) Option {
	return func(tk *UCFunctionToolkit) { tk.maxTurns = n }
}

// WithLogger sets the logger used by the toolkit and its sessions.
func WithLogger(logger zerolog.Logger) Option {
	return func(tk *UCFunctionToolkit) { tk.logger = logger }
}

// New resolves each fully qualified function name through the catalog and
// wraps it as a Bedrock tool. Resolution errors, including unknown names,
// surface the catalog's error unmodified. An empty name list yields an empty
// toolkit. Repeated names are deduplicated; distinct functions that truncate
// to the same tool name are rejected.
func New(ctx context.Context, client uc.FunctionClient, functionNames []string, opts ...Option) (*UCFunctionToolkit, error) {
	if client == nil {
		return nil, fmt.Errorf("unity catalog client is required")
	}
	tk := &UCFunctionToolkit{
		client:       client,
		confirmation: ConfirmationEnabled,
		tools:        make(map[string]*Tool, len(functionNames)),
	}
	for _, opt := range opts {
		opt(tk)
	}
	for _, name := range functionNames {
		info, err := client.GetFunction(ctx, name)
		if err != nil {
			return nil, err
		}
		tool := tk.toolFromFunctionInfo(info)
		if existing, ok := tk.tools[tool.Name]; ok {
			// Repeated names are deduplicated; distinct functions whose
			// truncated names collide would drop a requested function, so
			// they are an error.
			if existing.FunctionName == tool.FunctionName {
				continue
			}
			return nil, fmt.Errorf("functions %q and %q map to the same tool name %q",
				existing.FunctionName, tool.FunctionName, tool.Name)
		}
		tk.tools[tool.Name] = tool
		tk.order = append(tk.order, tool.Name)
	}
	return tk, nil
}

func (tk *UCFunctionToolkit) toolFromFunctionInfo(info *uc.FunctionInfo) *Tool {
	return &Tool{
		Name:                ToolName(info.FullName()),
		Description:         info.Comment,
		Parameters:          ParameterSchema(info),
		RequireConfirmation: tk.confirmation,
		FunctionName:        info.FullName(),
	}
}

// Tools returns the resolved tools in resolution order.
func (tk *UCFunctionToolkit) Tools() []*Tool {
	out := make([]*Tool, 0, len(tk.order))
	for _, name := range tk.order {
		out = append(out, tk.tools[name])
	}
	return out
}

// GetTool returns the tool with the given Bedrock tool name, or nil.
func (tk *UCFunctionToolkit) GetTool(name string) *Tool {
	return tk.tools[name]
}

// GetToolByFunction returns the tool resolved from the given fully qualified
// function name, or nil.
func (tk *UCFunctionToolkit) GetToolByFunction(functionName string) *Tool {
	for _, name := range tk.order {
		if tk.tools[name].FunctionName == functionName {
			return tk.tools[name]
		}
	}
	return nil
}

// FunctionNames returns the fully qualified names of the resolved functions.
func (tk *UCFunctionToolkit) FunctionNames() []string {
	out := make([]string, 0, len(tk.order))
	for _, name := range tk.order {
		out = append(out, tk.tools[name].FunctionName)
	}
	return out
}

// ValidateCall checks tool-call parameters against the resolved tool's
// schema. Calls for functions outside the toolkit are rejected.
func (tk *UCFunctionToolkit) ValidateCall(functionName string, params map[string]any) error {
	tool := tk.GetToolByFunction(functionName)
	if tool == nil {
		return fmt.Errorf("function %q is not part of this toolkit", functionName)
	}
	return tool.ValidateArguments(params)
}

// CreateSession returns a session binding this toolkit's functions to the
// given Bedrock agent and alias. The session executes return-control tool
// calls through the toolkit's catalog client after schema validation.
func (tk *UCFunctionToolkit) CreateSession(ctx context.Context, agentID, agentAliasID string) (*agent.Session, error) {
	runtime := tk.runtime
	if runtime == nil {
		rc, err := agent.DefaultRuntime(ctx)
		if err != nil {
			return nil, err
		}
		runtime = rc
	}
	return agent.NewSession(agent.Options{
		Runtime:      runtime,
		AgentID:      agentID,
		AgentAliasID: agentAliasID,
		Executor:     tk.client,
		Validator:    tk.ValidateCall,
		MaxTurns:     tk.maxTurns,
		Logger:       tk.logger,
	})
}
