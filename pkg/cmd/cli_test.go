package cmd_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unitycatalog-ai/bedrock-toolkit/pkg/cmd"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var output bytes.Buffer
	root := cmd.NewUCBedrockToolkit()
	root.SetOut(&output)
	root.SetErr(&output)
	root.SetArgs(args)
	err := root.Execute()
	return output.String(), err
}

func TestCLI(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expectError bool
		contains    []string
	}{
		{
			name:     "help flag",
			args:     []string{"--help"},
			contains: []string{"Unity Catalog", "Usage:", "Flags:", "tools", "register", "invoke", "serve"},
		},
		{
			name: "version flag",
			args: []string{"--version"},
		},
		{
			name:        "invalid flag",
			args:        []string{"--invalid-flag"},
			expectError: true,
			contains:    []string{},
		},
		{
			name:        "unknown subcommand",
			args:        []string{"frobnicate"},
			expectError: true,
			contains:    []string{},
		},
		{
			name:        "tools without configured functions",
			args:        []string{"tools"},
			expectError: true,
		},
		{
			name:        "invoke requires text",
			args:        []string{"invoke"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := execute(t, tt.args...)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			for _, expected := range tt.contains {
				assert.Contains(t, output, expected)
			}
		})
	}
}

func TestCLIToolsWithoutFunctions(t *testing.T) {
	_, err := execute(t, "tools")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no functions configured")
}

func TestCLIInvokeRequiresText(t *testing.T) {
	_, err := execute(t, "invoke")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--text")
}

func TestCLIVersionOutput(t *testing.T) {
	output, err := execute(t, "--version")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(output), "\n")
	assert.Len(t, lines, 1)
	assert.Contains(t, output, "uc-bedrock-toolkit")
}

func TestCLIFlags(t *testing.T) {
	root := cmd.NewUCBedrockToolkit()
	for _, name := range []string{"config", "log-level", "pretty"} {
		flag := root.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, "flag %s should exist", name)
		assert.NotEmpty(t, flag.Usage)
	}
}

func TestCLISubcommands(t *testing.T) {
	root := cmd.NewUCBedrockToolkit()
	names := make([]string, 0, len(root.Commands()))
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}
	for _, expected := range []string{"tools", "register", "invoke", "serve"} {
		assert.Contains(t, names, expected)
	}
}
