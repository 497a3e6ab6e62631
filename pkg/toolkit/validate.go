package toolkit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateArguments checks tool-call arguments against the tool's parameter
// schema. It returns nil when the arguments conform; otherwise an error
// listing every violation.
func (t *Tool) ValidateArguments(args map[string]any) error {
	if t.Parameters == nil {
		return nil
	}
	raw, err := json.Marshal(t.Parameters)
	if err != nil {
		return fmt.Errorf("encode parameter schema for %s: %w", t.Name, err)
	}
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(raw), gojsonschema.NewGoLoader(args))
	if err != nil {
		return fmt.Errorf("validate arguments for %s: %w", t.Name, err)
	}
	if result.Valid() {
		return nil
	}
	var violations []string
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return fmt.Errorf("invalid arguments for %s: %s", t.Name, strings.Join(violations, "; "))
}
