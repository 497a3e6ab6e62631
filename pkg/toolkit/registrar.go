package toolkit

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
	agtypes "github.com/aws/aws-sdk-go-v2/service/bedrockagent/types"
)

// BuilderClient mirrors the subset of the Bedrock agent build-time client
// used to register action groups. Satisfied by *bedrockagent.Client.
type BuilderClient interface {
	CreateAgentActionGroup(ctx context.Context, params *bedrockagent.CreateAgentActionGroupInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.CreateAgentActionGroupOutput, error)
}

// RegisterOptions configures action-group registration.
type RegisterOptions struct {
	// AgentID identifies the Bedrock agent being built. Required.
	AgentID string

	// AgentVersion is the agent version to attach the groups to. Defaults to
	// "DRAFT".
	AgentVersion string

	// Description is applied to every created action group.
	Description string
}

// RegisterActionGroups creates one RETURN_CONTROL action group per catalog
// schema represented in the toolkit. The group is named
// "catalog__schema" and each function definition is named after the bare
// function component, so the identifiers the agent echoes back reconstruct
// the original "catalog.schema.function" name exactly.
func (tk *UCFunctionToolkit) RegisterActionGroups(ctx context.Context, builder BuilderClient, opts RegisterOptions) ([]string, error) {
	if builder == nil {
		return nil, fmt.Errorf("bedrock agent builder client is required")
	}
	if opts.AgentID == "" {
		return nil, fmt.Errorf("agent id is required")
	}
	version := opts.AgentVersion
	if version == "" {
		version = "DRAFT"
	}

	groups := map[string][]agtypes.Function{}
	for _, tool := range tk.Tools() {
		parts := strings.SplitN(tool.FunctionName, ".", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("tool %s has malformed function name %q", tool.Name, tool.FunctionName)
		}
		group := parts[0] + "__" + parts[1]
		groups[group] = append(groups[group], tk.functionDefinition(parts[2], tool))
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		input := &bedrockagent.CreateAgentActionGroupInput{
			AgentId:         aws.String(opts.AgentID),
			AgentVersion:    aws.String(version),
			ActionGroupName: aws.String(name),
			ActionGroupExecutor: &agtypes.ActionGroupExecutorMemberCustomControl{
				Value: agtypes.CustomControlMethodReturnControl,
			},
			FunctionSchema: &agtypes.FunctionSchemaMemberFunctions{
				Value: groups[name],
			},
		}
		if opts.Description != "" {
			input.Description = aws.String(opts.Description)
		}
		if _, err := builder.CreateAgentActionGroup(ctx, input); err != nil {
			return names, fmt.Errorf("create action group %s: %w", name, err)
		}
		tk.logger.Info().
			Str("action_group", name).
			Int("functions", len(groups[name])).
			Msg("registered action group")
	}
	return names, nil
}

func (tk *UCFunctionToolkit) functionDefinition(function string, tool *Tool) agtypes.Function {
	def := agtypes.Function{
		Name:                aws.String(function),
		RequireConfirmation: agtypes.RequireConfirmation(tool.RequireConfirmation),
	}
	if tool.Description != "" {
		def.Description = aws.String(tool.Description)
	}
	if tool.Parameters == nil || len(tool.Parameters.Properties) == 0 {
		return def
	}
	params := make(map[string]agtypes.ParameterDetail, len(tool.Parameters.Properties))
	required := map[string]bool{}
	for _, name := range tool.Parameters.Required {
		required[name] = true
	}
	for name, prop := range tool.Parameters.Properties {
		detail := agtypes.ParameterDetail{
			Type:     parameterType(prop.Type),
			Required: aws.Bool(required[name]),
		}
		if prop.Description != "" {
			detail.Description = aws.String(prop.Description)
		}
		params[name] = detail
	}
	def.Parameters = params
	return def
}

// parameterType maps a JSON schema type to the Bedrock function schema type
// enum. Objects ride as strings because the function schema has no object
// type; the agent passes them as JSON text.
func parameterType(schemaType string) agtypes.Type {
	switch schemaType {
	case "integer":
		return agtypes.TypeInteger
	case "number":
		return agtypes.TypeNumber
	case "boolean":
		return agtypes.TypeBoolean
	case "array":
		return agtypes.TypeArray
	default:
		return agtypes.TypeString
	}
}
