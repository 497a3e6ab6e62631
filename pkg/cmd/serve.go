package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/spf13/cobra"

	localhttp "github.com/unitycatalog-ai/bedrock-toolkit/pkg/http"
	"github.com/unitycatalog-ai/bedrock-toolkit/pkg/mcp"
)

// newServeCommand serves the configured catalog functions as MCP tools over
// the configured transport.
func newServeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the configured functions as MCP tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			tk, client, err := opts.buildToolkit(ctx)
			if err != nil {
				return err
			}
			server, err := mcp.NewServer(tk, client, &mcp.Configuration{
				EnabledTools:  opts.cfg.Serve.EnabledTools,
				DisabledTools: opts.cfg.Serve.DisabledTools,
				RequiredScope: opts.cfg.Serve.RequiredScope,
				Logger:        opts.logger,
			}, mcp.RegisteredToolsets()...)
			if err != nil {
				return err
			}
			opts.logger.Info().
				Str("transport", opts.cfg.Serve.Transport).
				Strs("tools", server.GetEnabledTools()).
				Msg("starting mcp server")

			switch opts.cfg.Serve.Transport {
			case "stdio":
				return server.ServeStdio(ctx)
			case "sse":
				return opts.serveHTTP(ctx, server.ServeSse(), client)
			case "http":
				return opts.serveHTTP(ctx, server.ServeHTTP(), client)
			default:
				return fmt.Errorf("unsupported transport %q", opts.cfg.Serve.Transport)
			}
		},
	}
}

// serveHTTP runs the given MCP handler behind the authorization middleware
// until the context is cancelled.
func (o *options) serveHTTP(ctx context.Context, handler http.Handler, verifier localhttp.CatalogTokenVerifier) error {
	var provider *oidc.Provider
	if o.cfg.OAuth.IssuerURL != "" {
		p, err := oidc.NewProvider(ctx, o.cfg.OAuth.IssuerURL)
		if err != nil {
			return fmt.Errorf("discover OIDC provider: %w", err)
		}
		provider = p
	}

	mux := http.NewServeMux()
	mux.HandleFunc(localhttp.HealthEndpoint, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/", handler)

	authorized := localhttp.AuthorizationMiddleware(&o.cfg.OAuth, provider, verifier, o.logger)(mux)
	server := &http.Server{
		Addr:              o.cfg.Serve.ListenAddress,
		Handler:           authorized,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
