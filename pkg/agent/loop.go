package agent

import (
	"context"
	"fmt"
)

// Run drives a complete agent turn: invoke the agent with the user's input,
// and while the agent returns control, execute the requested catalog
// functions and feed the results back as session state. Returns the agent's
// final text response.
//
// The loop is bounded by the session's MaxTurns; hitting the bound returns
// ErrTurnLimit. Each iteration issues exactly one InvokeAgent call and
// handles a single return-control invocation: the session state echoes the
// results under that invocation's id, so a response carrying multiple
// invocation ids is an error rather than a silent mis-attribution.
func (s *Session) Run(ctx context.Context, inputText string, opts ...InvokeOption) (string, error) {
	resp, err := s.InvokeAgent(ctx, inputText, opts...)
	if err != nil {
		return "", err
	}
	for turn := 1; resp.RequiresToolExecution(); turn++ {
		if turn >= s.maxTurns {
			return "", fmt.Errorf("%w after %d turns", ErrTurnLimit, turn)
		}
		calls := ExtractToolCalls(resp)
		if len(calls) == 0 {
			return "", fmt.Errorf("agent returned control without function invocation inputs (session=%s)", s.sessionID)
		}
		for _, call := range calls[1:] {
			if call.InvocationID != calls[0].InvocationID {
				return "", fmt.Errorf("agent returned control with multiple invocation ids (%s, %s); one invocation per turn is supported",
					calls[0].InvocationID, call.InvocationID)
			}
		}
		results, err := s.ExecuteToolCalls(ctx, calls)
		if err != nil {
			return "", err
		}
		// Input text is only sent on the first turn; follow-ups carry the
		// tool results in session state.
		resp, err = s.InvokeAgent(ctx, "", WithSessionState(SessionState(results)))
		if err != nil {
			return "", err
		}
	}
	return resp.FinalResponse(), nil
}
