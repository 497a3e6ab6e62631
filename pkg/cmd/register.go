package cmd

import (
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
	"github.com/spf13/cobra"

	"github.com/unitycatalog-ai/bedrock-toolkit/pkg/toolkit"
)

// newRegisterCommand creates RETURN_CONTROL action groups on a Bedrock agent
// for the configured catalog functions.
func newRegisterCommand(opts *options) *cobra.Command {
	var (
		agentID      string
		agentVersion string
		description  string
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register the configured functions as agent action groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if agentID == "" {
				agentID = opts.cfg.Agent.AgentID
			}
			if agentID == "" {
				return fmt.Errorf("an agent id is required; pass --agent-id or set agent.agent_id")
			}
			tk, _, err := opts.buildToolkit(ctx)
			if err != nil {
				return err
			}
			awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts.awsLoadOptions()...)
			if err != nil {
				return fmt.Errorf("load aws config: %w", err)
			}
			groups, err := tk.RegisterActionGroups(ctx, bedrockagent.NewFromConfig(awsCfg), toolkit.RegisterOptions{
				AgentID:      agentID,
				AgentVersion: agentVersion,
				Description:  description,
			})
			if err != nil {
				return err
			}
			for _, group := range groups {
				fmt.Fprintln(cmd.OutOrStdout(), group)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&agentID, "agent-id", "", "Bedrock agent id (defaults to agent.agent_id)")
	cmd.Flags().StringVar(&agentVersion, "agent-version", "DRAFT", "agent version to attach the action groups to")
	cmd.Flags().StringVar(&description, "description", "", "description applied to the created action groups")
	return cmd
}
