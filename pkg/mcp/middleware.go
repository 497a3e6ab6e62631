package mcp

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

// toolCallLoggingMiddleware logs every received MCP method with its outcome
// and latency.
func toolCallLoggingMiddleware(logger zerolog.Logger) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			start := time.Now()
			result, err := next(ctx, method, req)
			event := logger.Debug()
			if err != nil {
				event = logger.Warn().Err(err)
			}
			event.
				Str("method", method).
				Dur("elapsed", time.Since(start)).
				Msg("mcp request")
			return result, err
		}
	}
}

// toolScopedAuthorizationMiddleware rejects tool calls whose caller does not
// carry the required OAuth scope. Scopes are propagated into context by the
// HTTP authorization middleware; stdio transports carry no scopes and are
// not gated.
func toolScopedAuthorizationMiddleware(requiredScope string) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			if method != "tools/call" {
				return next(ctx, method, req)
			}
			scopes, ok := ctx.Value(TokenScopesContextKey).([]string)
			if !ok {
				return next(ctx, method, req)
			}
			if !slices.Contains(scopes, requiredScope) {
				return nil, fmt.Errorf("missing required scope %q", requiredScope)
			}
			return next(ctx, method, req)
		}
	}
}
