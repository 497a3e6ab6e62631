package toolkit

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
	agtypes "github.com/aws/aws-sdk-go-v2/service/bedrockagent/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unitycatalog-ai/bedrock-toolkit/pkg/uc"
)

type fakeBuilder struct {
	inputs []*bedrockagent.CreateAgentActionGroupInput
	err    error
}

func (f *fakeBuilder) CreateAgentActionGroup(_ context.Context, params *bedrockagent.CreateAgentActionGroupInput, _ ...func(*bedrockagent.Options)) (*bedrockagent.CreateAgentActionGroupOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockagent.CreateAgentActionGroupOutput{}, nil
}

func TestRegisterActionGroups(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.functions["prod.billing.lookup_order"] = &uc.FunctionInfo{
		Name:        "lookup_order",
		CatalogName: "prod",
		SchemaName:  "billing",
		InputParams: &uc.FunctionParameterInfos{
			Parameters: []uc.FunctionParameterInfo{
				{Name: "order_id", TypeName: uc.TypeNameLong, Position: 0},
			},
		},
	}

	tk, err := New(context.Background(), catalog,
		[]string{"main.ai.weather", "main.ai.translate", "prod.billing.lookup_order"})
	require.NoError(t, err)

	builder := &fakeBuilder{}
	groups, err := tk.RegisterActionGroups(context.Background(), builder, RegisterOptions{
		AgentID:     "AGENT123",
		Description: "catalog functions",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"main__ai", "prod__billing"}, groups)
	require.Len(t, builder.inputs, 2)

	first := builder.inputs[0]
	assert.Equal(t, "AGENT123", aws.ToString(first.AgentId))
	assert.Equal(t, "DRAFT", aws.ToString(first.AgentVersion))
	assert.Equal(t, "main__ai", aws.ToString(first.ActionGroupName))
	assert.Equal(t, "catalog functions", aws.ToString(first.Description))

	executor, ok := first.ActionGroupExecutor.(*agtypes.ActionGroupExecutorMemberCustomControl)
	require.True(t, ok)
	assert.Equal(t, agtypes.CustomControlMethodReturnControl, executor.Value)

	schema, ok := first.FunctionSchema.(*agtypes.FunctionSchemaMemberFunctions)
	require.True(t, ok)
	require.Len(t, schema.Value, 2)

	byName := map[string]agtypes.Function{}
	for _, def := range schema.Value {
		byName[aws.ToString(def.Name)] = def
	}
	weather, ok := byName["weather"]
	require.True(t, ok)
	assert.Equal(t, agtypes.RequireConfirmationEnabled, weather.RequireConfirmation)
	require.Contains(t, weather.Parameters, "location")
	assert.Equal(t, agtypes.TypeString, weather.Parameters["location"].Type)
	assert.True(t, aws.ToBool(weather.Parameters["location"].Required))
	require.Contains(t, weather.Parameters, "days")
	assert.Equal(t, agtypes.TypeInteger, weather.Parameters["days"].Type)
	assert.False(t, aws.ToBool(weather.Parameters["days"].Required))

	second := builder.inputs[1]
	assert.Equal(t, "prod__billing", aws.ToString(second.ActionGroupName))
	billing, ok := second.FunctionSchema.(*agtypes.FunctionSchemaMemberFunctions)
	require.True(t, ok)
	require.Len(t, billing.Value, 1)
	assert.Equal(t, "lookup_order", aws.ToString(billing.Value[0].Name))
}

func TestRegisterActionGroupsValidation(t *testing.T) {
	tk, err := New(context.Background(), newFakeCatalog(), []string{"main.ai.weather"})
	require.NoError(t, err)

	_, err = tk.RegisterActionGroups(context.Background(), nil, RegisterOptions{AgentID: "AGENT123"})
	assert.Error(t, err)

	_, err = tk.RegisterActionGroups(context.Background(), &fakeBuilder{}, RegisterOptions{})
	assert.Error(t, err)
}

func TestRegisterActionGroupsPropagatesBuilderError(t *testing.T) {
	tk, err := New(context.Background(), newFakeCatalog(), []string{"main.ai.weather"})
	require.NoError(t, err)

	builder := &fakeBuilder{err: errors.New("access denied")}
	_, err = tk.RegisterActionGroups(context.Background(), builder, RegisterOptions{AgentID: "AGENT123"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "main__ai")
	assert.Contains(t, err.Error(), "access denied")
}

func TestParameterType(t *testing.T) {
	assert.Equal(t, agtypes.TypeInteger, parameterType("integer"))
	assert.Equal(t, agtypes.TypeNumber, parameterType("number"))
	assert.Equal(t, agtypes.TypeBoolean, parameterType("boolean"))
	assert.Equal(t, agtypes.TypeArray, parameterType("array"))
	assert.Equal(t, agtypes.TypeString, parameterType("string"))
	assert.Equal(t, agtypes.TypeString, parameterType("object"))
}
