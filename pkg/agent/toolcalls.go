package agent

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
)

// FunctionNameFromToolCall recovers the fully qualified catalog function
// name from the identifiers the agent echoes back. It is the inverse of the
// toolkit's name mapping: action group and function are joined with "__" and
// double underscores become dots.
func FunctionNameFromToolCall(actionGroup, function string) string {
	return strings.ReplaceAll(actionGroup+"__"+function, "__", ".")
}

// ErrNoExecutor is returned when tool execution is requested on a session
// built without a catalog executor.
var ErrNoExecutor = errors.New("session has no catalog function executor")

// ToolCall is a single function invocation requested by the agent through
// return control. ActionGroup and Function are kept verbatim so results can
// echo exactly what the agent sent.
type ToolCall struct {
	InvocationID string
	ActionGroup  string
	Function     string
	FunctionName string
	Parameters   map[string]any
}

// ToolResult is the outcome of executing a ToolCall against the catalog.
type ToolResult struct {
	Call   ToolCall
	Result string
	Err    error
}

// ExtractToolCalls flattens the response's return-control payloads into tool
// calls. Function names are recovered by reversing the toolkit's name
// mapping on "actionGroup__function".
func ExtractToolCalls(resp *Response) []ToolCall {
	var calls []ToolCall
	for _, payload := range resp.ReturnControl() {
		invocationID := aws.ToString(payload.InvocationId)
		for _, member := range payload.InvocationInputs {
			input, ok := member.(*brtypes.InvocationInputMemberMemberFunctionInvocationInput)
			if !ok {
				continue
			}
			fn := input.Value
			actionGroup := aws.ToString(fn.ActionGroup)
			function := aws.ToString(fn.Function)
			calls = append(calls, ToolCall{
				InvocationID: invocationID,
				ActionGroup:  actionGroup,
				Function:     function,
				FunctionName: FunctionNameFromToolCall(actionGroup, function),
				Parameters:   convertParameters(fn.Parameters),
			})
		}
	}
	return calls
}

// convertParameters turns the agent's string-typed parameters into Go values
// using the declared parameter type as a hint. Values that fail to parse ride
// through as strings; the catalog coerces on execution.
func convertParameters(params []brtypes.FunctionParameter) map[string]any {
	out := make(map[string]any, len(params))
	for _, p := range params {
		name := aws.ToString(p.Name)
		value := aws.ToString(p.Value)
		switch aws.ToString(p.Type) {
		case "integer":
			if n, err := strconv.ParseInt(value, 10, 64); err == nil {
				out[name] = n
				continue
			}
		case "number":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				out[name] = f
				continue
			}
		case "boolean":
			if b, err := strconv.ParseBool(value); err == nil {
				out[name] = b
				continue
			}
		}
		out[name] = value
	}
	return out
}

// ExecuteToolCalls runs each tool call against the catalog executor, applying
// the session's validator first. Execution failures are captured on the
// result rather than aborting, so the agent can be told about them.
func (s *Session) ExecuteToolCalls(ctx context.Context, calls []ToolCall) ([]ToolResult, error) {
	if s.executor == nil {
		return nil, ErrNoExecutor
	}
	results := make([]ToolResult, 0, len(calls))
	for _, call := range calls {
		results = append(results, s.executeToolCall(ctx, call))
	}
	return results, nil
}

func (s *Session) executeToolCall(ctx context.Context, call ToolCall) ToolResult {
	res := ToolResult{Call: call}
	if s.validator != nil {
		if err := s.validator(call.FunctionName, call.Parameters); err != nil {
			res.Err = err
			return res
		}
	}
	exec, err := s.executor.ExecuteFunction(ctx, call.FunctionName, call.Parameters)
	if err != nil {
		res.Err = err
		return res
	}
	if exec.Error != "" {
		res.Err = fmt.Errorf("catalog execution failed: %s", exec.Error)
		return res
	}
	res.Result = exec.Value
	s.logger.Debug().
		Str("function", call.FunctionName).
		Str("invocation_id", call.InvocationID).
		Msg("executed tool call")
	return res
}

// SessionState builds the return-control session state for a batch of tool
// results sharing an invocation; the state carries a single invocation id,
// taken from the first result. Failed executions are reported with a FAILURE
// response state so the agent can react instead of stalling.
func SessionState(results []ToolResult) *brtypes.SessionState {
	if len(results) == 0 {
		return nil
	}
	state := &brtypes.SessionState{
		InvocationId: aws.String(results[0].Call.InvocationID),
	}
	for _, r := range results {
		fr := brtypes.FunctionResult{
			ActionGroup:       aws.String(r.Call.ActionGroup),
			Function:          aws.String(r.Call.Function),
			ConfirmationState: brtypes.ConfirmationStateConfirm,
		}
		body := r.Result
		if r.Err != nil {
			body = r.Err.Error()
			fr.ResponseState = brtypes.ResponseStateFailure
		}
		fr.ResponseBody = map[string]brtypes.ContentBody{
			"TEXT": {Body: aws.String(body)},
		}
		state.ReturnControlInvocationResults = append(state.ReturnControlInvocationResults,
			&brtypes.InvocationResultMemberMemberFunctionResult{Value: fr})
	}
	return state
}
