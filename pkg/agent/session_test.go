package agent

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	smithy "github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unitycatalog-ai/bedrock-toolkit/pkg/uc"
)

// mockRuntime records every InvokeAgent input and returns scripted errors.
type mockRuntime struct {
	inputs []*bedrockagentruntime.InvokeAgentInput
	err    error
}

func (m *mockRuntime) InvokeAgent(_ context.Context, params *bedrockagentruntime.InvokeAgentInput, _ ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.InvokeAgentOutput, error) {
	m.inputs = append(m.inputs, params)
	if m.err != nil {
		return nil, m.err
	}
	return &bedrockagentruntime.InvokeAgentOutput{}, nil
}

// fakeExecutor satisfies uc.FunctionExecutor with scripted results.
type fakeExecutor struct {
	calls   []string
	params  []map[string]any
	results map[string]*uc.FunctionExecutionResult
	err     error
}

func (f *fakeExecutor) ExecuteFunction(_ context.Context, fullName string, params map[string]any) (*uc.FunctionExecutionResult, error) {
	f.calls = append(f.calls, fullName)
	f.params = append(f.params, params)
	if f.err != nil {
		return nil, f.err
	}
	if res, ok := f.results[fullName]; ok {
		return res, nil
	}
	return &uc.FunctionExecutionResult{Value: "ok"}, nil
}

func newTestSession(t *testing.T, opts Options) *Session {
	t.Helper()
	if opts.Runtime == nil {
		opts.Runtime = &mockRuntime{}
	}
	if opts.AgentID == "" {
		opts.AgentID = "AGENT123"
	}
	if opts.AgentAliasID == "" {
		opts.AgentAliasID = "ALIAS456"
	}
	session, err := NewSession(opts)
	require.NoError(t, err)
	return session
}

func TestNewSessionValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "missing runtime", opts: Options{AgentID: "a", AgentAliasID: "b"}},
		{name: "missing agent id", opts: Options{Runtime: &mockRuntime{}, AgentAliasID: "b"}},
		{name: "missing alias id", opts: Options{Runtime: &mockRuntime{}, AgentID: "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSession(tt.opts)
			assert.Error(t, err)
		})
	}
}

func TestNewSessionDefaults(t *testing.T) {
	session := newTestSession(t, Options{})
	assert.NotEmpty(t, session.SessionID())
	assert.Equal(t, defaultMaxTurns, session.MaxTurns())

	other := newTestSession(t, Options{})
	assert.NotEqual(t, session.SessionID(), other.SessionID())

	pinned := newTestSession(t, Options{SessionID: "fixed", MaxTurns: 3})
	assert.Equal(t, "fixed", pinned.SessionID())
	assert.Equal(t, 3, pinned.MaxTurns())
}

func TestInvokeAgentForwardsInputVerbatim(t *testing.T) {
	runtime := &mockRuntime{}
	session := newTestSession(t, Options{Runtime: runtime, SessionID: "session-1"})

	// Whitespace and casing must ride through untouched.
	text := "  What IS the weather in Berlin?\n"
	_, err := session.InvokeAgent(context.Background(), text)
	require.NoError(t, err)

	require.Len(t, runtime.inputs, 1)
	input := runtime.inputs[0]
	assert.Equal(t, "AGENT123", aws.ToString(input.AgentId))
	assert.Equal(t, "ALIAS456", aws.ToString(input.AgentAliasId))
	assert.Equal(t, "session-1", aws.ToString(input.SessionId))
	assert.Equal(t, text, aws.ToString(input.InputText))
	assert.Nil(t, input.SessionState)
	assert.Nil(t, input.EnableTrace)
}

func TestInvokeAgentEmptyInputOmitsText(t *testing.T) {
	runtime := &mockRuntime{}
	session := newTestSession(t, Options{Runtime: runtime})

	_, err := session.InvokeAgent(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, runtime.inputs, 1)
	assert.Nil(t, runtime.inputs[0].InputText)
}

func TestInvokeAgentOptions(t *testing.T) {
	runtime := &mockRuntime{}
	session := newTestSession(t, Options{Runtime: runtime})

	state := &brtypes.SessionState{InvocationId: aws.String("inv-1")}
	_, err := session.InvokeAgent(context.Background(), "hi",
		WithSessionState(state), WithTrace(), WithEndSession())
	require.NoError(t, err)

	input := runtime.inputs[0]
	assert.Same(t, state, input.SessionState)
	assert.True(t, aws.ToBool(input.EnableTrace))
	assert.True(t, aws.ToBool(input.EndSession))
}

func TestInvokeAgentClassifiesThrottling(t *testing.T) {
	runtime := &mockRuntime{err: &smithy.GenericAPIError{
		Code:    "ThrottlingException",
		Message: "rate exceeded",
	}}
	session := newTestSession(t, Options{Runtime: runtime})

	_, err := session.InvokeAgent(context.Background(), "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrThrottled)
	assert.Contains(t, err.Error(), "invoke_agent")
}

func TestClassifyAWSError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		throttled bool
	}{
		{
			name:      "throttling exception code",
			err:       &smithy.GenericAPIError{Code: "ThrottlingException"},
			throttled: true,
		},
		{
			name:      "too many requests code",
			err:       &smithy.GenericAPIError{Code: "TooManyRequestsException"},
			throttled: true,
		},
		{
			name: "http 429",
			err: &smithyhttp.ResponseError{
				Response: &smithyhttp.Response{Response: &http.Response{StatusCode: http.StatusTooManyRequests}},
				Err:      errors.New("too many requests"),
			},
			throttled: true,
		},
		{
			name: "other api error",
			err:  &smithy.GenericAPIError{Code: "AccessDeniedException"},
		},
		{
			name: "plain error",
			err:  errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyAWSError("invoke_agent", tt.err)
			require.Error(t, err)
			assert.Equal(t, tt.throttled, errors.Is(err, ErrThrottled))
			assert.ErrorIs(t, err, tt.err)
		})
	}

	assert.NoError(t, classifyAWSError("invoke_agent", nil))
}
