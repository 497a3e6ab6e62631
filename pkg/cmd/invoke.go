package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unitycatalog-ai/bedrock-toolkit/pkg/toolkit"
)

// newInvokeCommand runs a full agent turn, executing return-control tool
// calls against the catalog, and prints the final response.
func newInvokeCommand(opts *options) *cobra.Command {
	var (
		text         string
		agentID      string
		agentAliasID string
	)
	cmd := &cobra.Command{
		Use:   "invoke",
		Short: "Send input to the Bedrock agent and print its final response",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if text == "" {
				return fmt.Errorf("--text is required")
			}
			if agentID == "" {
				agentID = opts.cfg.Agent.AgentID
			}
			if agentAliasID == "" {
				agentAliasID = opts.cfg.Agent.AgentAliasID
			}
			runtime, err := opts.agentRuntime(ctx)
			if err != nil {
				return err
			}
			tk, _, err := opts.buildToolkit(ctx,
				toolkit.WithRuntime(runtime),
				toolkit.WithMaxTurns(opts.cfg.Agent.MaxTurns))
			if err != nil {
				return err
			}
			session, err := tk.CreateSession(ctx, agentID, agentAliasID)
			if err != nil {
				return err
			}
			opts.logger.Info().
				Str("agent_id", agentID).
				Str("session_id", session.SessionID()).
				Msg("starting agent session")
			final, err := session.Run(ctx, text)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), final)
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "input text forwarded to the agent")
	cmd.Flags().StringVar(&agentID, "agent-id", "", "Bedrock agent id (defaults to agent.agent_id)")
	cmd.Flags().StringVar(&agentAliasID, "agent-alias-id", "", "Bedrock agent alias id (defaults to agent.agent_alias_id)")
	return cmd
}
