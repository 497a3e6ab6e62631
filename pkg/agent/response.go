package agent

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
)

// Response holds the events drained from a single InvokeAgent completion
// stream: text chunks and any return-control payloads asking the caller to
// execute tools.
type Response struct {
	chunks        []string
	returnControl []brtypes.ReturnControlPayload
}

// drainOutput is indirected so tests can substitute canned responses for the
// SDK's event stream plumbing.
var drainOutput = drainResponse

func drainResponse(out *bedrockagentruntime.InvokeAgentOutput) (*Response, error) {
	return drainStream(out.GetStream())
}

// drainStream consumes the completion event stream. The stream is fully read
// and closed before the Response is returned; a streaming surface is
// deliberately not exposed (one blocking call per invocation).
func drainStream(stream *bedrockagentruntime.InvokeAgentEventStream) (*Response, error) {
	resp := &Response{}
	if stream == nil {
		return resp, nil
	}
	defer func() { _ = stream.Close() }()
	for event := range stream.Events() {
		switch e := event.(type) {
		case *brtypes.ResponseStreamMemberChunk:
			if len(e.Value.Bytes) > 0 {
				resp.chunks = append(resp.chunks, string(e.Value.Bytes))
			}
		case *brtypes.ResponseStreamMemberReturnControl:
			resp.returnControl = append(resp.returnControl, e.Value)
		default:
			// Trace and file events are not part of the toolkit contract.
		}
	}
	if err := stream.Err(); err != nil {
		return nil, classifyAWSError("invoke_agent_stream", err)
	}
	return resp, nil
}

// RequiresToolExecution reports whether the agent handed control back to the
// caller to execute one or more tools.
func (r *Response) RequiresToolExecution() bool {
	return len(r.returnControl) > 0
}

// FinalResponse returns the agent's text answer. Empty while tool execution
// is still pending and for responses that produced no chunks.
func (r *Response) FinalResponse() string {
	if r.RequiresToolExecution() {
		return ""
	}
	return strings.Join(r.chunks, "")
}

// Chunks returns the raw completion chunks in arrival order.
func (r *Response) Chunks() []string {
	out := make([]string, len(r.chunks))
	copy(out, r.chunks)
	return out
}

// ReturnControl returns the raw return-control payloads, if any.
func (r *Response) ReturnControl() []brtypes.ReturnControlPayload {
	out := make([]brtypes.ReturnControlPayload, len(r.returnControl))
	copy(out, r.returnControl)
	return out
}
