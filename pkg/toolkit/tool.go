package toolkit

import (
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// Bedrock limits tool names to 64 characters from [a-zA-Z0-9_-].
const maxToolNameLen = 64

// RequireConfirmation mirrors the Bedrock action group confirmation setting
// attached to each function.
type RequireConfirmation string

const (
	ConfirmationEnabled  RequireConfirmation = "ENABLED"
	ConfirmationDisabled RequireConfirmation = "DISABLED"
)

// Tool is a catalog function rendered as a Bedrock-consumable tool
// descriptor.
type Tool struct {
	// Name is the Bedrock-safe tool name derived from the function's full
	// name, see ToolName.
	Name string `json:"name"`

	// Description is the catalog function's comment.
	Description string `json:"description"`

	// Parameters is the JSON schema of the function's input parameters.
	Parameters *jsonschema.Schema `json:"parameters"`

	// RequireConfirmation controls whether the agent asks for confirmation
	// before executing the function. Enabled unless overridden.
	RequireConfirmation RequireConfirmation `json:"requireConfirmation"`

	// FunctionName is the original "catalog.schema.function" identifier the
	// tool was resolved from.
	FunctionName string `json:"-"`
}

// ToolName maps a fully qualified function name to a Bedrock-compatible tool
// name: dots become double underscores and the result is capped to the
// trailing 64 characters. The trailing cap keeps the function component, the
// part that disambiguates tools within a schema, intact.
func ToolName(fullName string) string {
	name := strings.ReplaceAll(fullName, ".", "__")
	if len(name) > maxToolNameLen {
		name = name[len(name)-maxToolNameLen:]
	}
	return name
}

// OriginalFunctionName reverses ToolName for names that were not truncated.
func OriginalFunctionName(toolName string) string {
	return strings.ReplaceAll(toolName, "__", ".")
}
