// Package agent wraps the AWS Bedrock agent runtime. A Session binds an
// agent and alias to a generated session identifier, forwards user input
// through InvokeAgent, and drives the return-control loop that executes
// catalog functions on the agent's behalf.
package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/unitycatalog-ai/bedrock-toolkit/pkg/uc"
)

// RuntimeClient mirrors the subset of the Bedrock agent runtime client the
// session needs. It matches *bedrockagentruntime.Client so callers can pass
// either the real client or a mock in tests.
type RuntimeClient interface {
	InvokeAgent(ctx context.Context, params *bedrockagentruntime.InvokeAgentInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.InvokeAgentOutput, error)
}

// ToolCallValidator checks tool-call parameters before execution. Supplied by
// the toolkit; a nil validator skips validation.
type ToolCallValidator func(functionName string, params map[string]any) error

// Options configures a Session.
type Options struct {
	// Runtime provides access to the Bedrock agent runtime. Required.
	Runtime RuntimeClient

	// AgentID identifies the Bedrock agent. Required.
	AgentID string

	// AgentAliasID identifies the agent alias. Required.
	AgentAliasID string

	// SessionID overrides the generated session identifier.
	SessionID string

	// Executor runs catalog functions for return-control tool calls.
	// Optional; without it, ExecuteToolCalls fails.
	Executor uc.FunctionExecutor

	// Validator checks tool-call parameters before execution.
	Validator ToolCallValidator

	// MaxTurns bounds the Run loop. Defaults to 10.
	MaxTurns int

	// Logger is used for session diagnostics. When zero, logging is disabled.
	Logger zerolog.Logger
}

// Session is a handle binding the toolkit to a specific Bedrock agent and
// alias. Sessions hold no persisted state; discard them when the interaction
// is over.
type Session struct {
	runtime      RuntimeClient
	agentID      string
	agentAliasID string
	sessionID    string
	executor     uc.FunctionExecutor
	validator    ToolCallValidator
	maxTurns     int
	logger       zerolog.Logger
}

const defaultMaxTurns = 10

// NewSession creates a session for the given agent and alias.
func NewSession(opts Options) (*Session, error) {
	if opts.Runtime == nil {
		return nil, errors.New("bedrock agent runtime client is required")
	}
	if opts.AgentID == "" {
		return nil, errors.New("agent id is required")
	}
	if opts.AgentAliasID == "" {
		return nil, errors.New("agent alias id is required")
	}
	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	maxTurns := opts.MaxTurns
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}
	return &Session{
		runtime:      opts.Runtime,
		agentID:      opts.AgentID,
		agentAliasID: opts.AgentAliasID,
		sessionID:    sessionID,
		executor:     opts.Executor,
		validator:    opts.Validator,
		maxTurns:     maxTurns,
		logger:       opts.Logger,
	}, nil
}

// DefaultRuntime builds a Bedrock agent runtime client from the ambient AWS
// configuration (environment, shared config, instance metadata).
func DefaultRuntime(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (RuntimeClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return bedrockagentruntime.NewFromConfig(cfg), nil
}

// SessionID returns the identifier sent with every InvokeAgent call.
func (s *Session) SessionID() string { return s.sessionID }

// AgentID returns the bound agent identifier.
func (s *Session) AgentID() string { return s.agentID }

// AgentAliasID returns the bound agent alias identifier.
func (s *Session) AgentAliasID() string { return s.agentAliasID }

// MaxTurns returns the bound applied to the Run loop.
func (s *Session) MaxTurns() int { return s.maxTurns }

// InvokeOption customizes a single InvokeAgent call.
type InvokeOption func(*bedrockagentruntime.InvokeAgentInput)

// WithSessionState attaches session state, typically return-control results,
// to the invocation.
func WithSessionState(state *brtypes.SessionState) InvokeOption {
	return func(in *bedrockagentruntime.InvokeAgentInput) { in.SessionState = state }
}

// WithTrace enables agent trace events on the invocation.
func WithTrace() InvokeOption {
	return func(in *bedrockagentruntime.InvokeAgentInput) { in.EnableTrace = aws.Bool(true) }
}

// WithEndSession marks the invocation as the last one of the session.
func WithEndSession() InvokeOption {
	return func(in *bedrockagentruntime.InvokeAgentInput) { in.EndSession = aws.Bool(true) }
}

// InvokeAgent forwards the input text unmodified to the bound Bedrock agent
// and drains the completion stream into a Response. One blocking call per
// invocation; retries and batching are left to the caller.
func (s *Session) InvokeAgent(ctx context.Context, inputText string, opts ...InvokeOption) (*Response, error) {
	input := &bedrockagentruntime.InvokeAgentInput{
		AgentId:      aws.String(s.agentID),
		AgentAliasId: aws.String(s.agentAliasID),
		SessionId:    aws.String(s.sessionID),
	}
	if inputText != "" {
		input.InputText = aws.String(inputText)
	}
	for _, opt := range opts {
		opt(input)
	}

	out, err := s.runtime.InvokeAgent(ctx, input)
	if err != nil {
		return nil, classifyAWSError("invoke_agent", err)
	}
	resp, err := drainOutput(out)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().
		Str("agent_id", s.agentID).
		Str("session_id", s.sessionID).
		Int("chunks", len(resp.chunks)).
		Bool("return_control", resp.RequiresToolExecution()).
		Msg("invoke agent")
	return resp, nil
}
