// Package cmd implements the uc-bedrock-toolkit command line interface.
package cmd

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/unitycatalog-ai/bedrock-toolkit/pkg/agent"
	"github.com/unitycatalog-ai/bedrock-toolkit/pkg/config"
	"github.com/unitycatalog-ai/bedrock-toolkit/pkg/logging"
	"github.com/unitycatalog-ai/bedrock-toolkit/pkg/toolkit"
	"github.com/unitycatalog-ai/bedrock-toolkit/pkg/uc"
	"github.com/unitycatalog-ai/bedrock-toolkit/pkg/version"
)

// options carries the state shared by all subcommands after configuration
// loading.
type options struct {
	configPath string
	logLevel   string
	pretty     bool

	cfg    *config.Config
	logger zerolog.Logger
}

// NewUCBedrockToolkit creates the root command with all subcommands
// attached.
func NewUCBedrockToolkit() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:     version.BinaryName,
		Short:   "Expose Unity Catalog functions as AWS Bedrock agent tools",
		Long: "uc-bedrock-toolkit resolves Unity Catalog functions into Bedrock tool\n" +
			"descriptors, registers them as agent action groups, runs agent sessions\n" +
			"with return-control execution, and serves the functions over MCP.",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") || cfg.Logging.Level == "" {
				cfg.Logging.Level = opts.logLevel
			}
			if cmd.Flags().Changed("pretty") {
				cfg.Logging.Pretty = opts.pretty
			}
			opts.cfg = cfg
			opts.logger = logging.New(cfg.Logging.Level, cfg.Logging.Pretty)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to the configuration file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.pretty, "pretty", false, "human-readable console logging")

	root.AddCommand(newToolsCommand(opts))
	root.AddCommand(newRegisterCommand(opts))
	root.AddCommand(newInvokeCommand(opts))
	root.AddCommand(newServeCommand(opts))
	return root
}

// catalogClient builds the Unity Catalog client from configuration.
func (o *options) catalogClient() (*uc.Client, error) {
	return uc.NewClient(uc.Options{
		BaseURL: o.cfg.Catalog.BaseURL,
		Token:   o.cfg.Catalog.Token,
		Logger:  o.logger,
	})
}

// buildToolkit resolves the configured functions into a toolkit.
func (o *options) buildToolkit(ctx context.Context, extra ...toolkit.Option) (*toolkit.UCFunctionToolkit, *uc.Client, error) {
	if len(o.cfg.Functions) == 0 {
		return nil, nil, fmt.Errorf("no functions configured; set 'functions' in the config file")
	}
	client, err := o.catalogClient()
	if err != nil {
		return nil, nil, err
	}
	tkOpts := append([]toolkit.Option{toolkit.WithLogger(o.logger)}, extra...)
	tk, err := toolkit.New(ctx, client, o.cfg.Functions, tkOpts...)
	if err != nil {
		return nil, nil, err
	}
	return tk, client, nil
}

// awsLoadOptions translates the agent configuration into AWS config loader
// options.
func (o *options) awsLoadOptions() []func(*awsconfig.LoadOptions) error {
	var fns []func(*awsconfig.LoadOptions) error
	if o.cfg.Agent.Region != "" {
		fns = append(fns, awsconfig.WithRegion(o.cfg.Agent.Region))
	}
	return fns
}

// agentRuntime builds the Bedrock agent runtime client from the ambient AWS
// configuration.
func (o *options) agentRuntime(ctx context.Context) (agent.RuntimeClient, error) {
	return agent.DefaultRuntime(ctx, o.awsLoadOptions()...)
}
