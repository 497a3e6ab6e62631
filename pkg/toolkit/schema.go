package toolkit

import (
	"sort"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/unitycatalog-ai/bedrock-toolkit/pkg/uc"
)

// ParameterSchema builds the JSON schema describing a function's input
// parameters. Parameters are emitted in catalog position order; a parameter
// is required unless it is nullable or carries a default.
func ParameterSchema(info *uc.FunctionInfo) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{},
	}
	if info == nil || info.InputParams == nil {
		return schema
	}

	params := make([]uc.FunctionParameterInfo, len(info.InputParams.Parameters))
	copy(params, info.InputParams.Parameters)
	sort.Slice(params, func(i, j int) bool { return params[i].Position < params[j].Position })

	for _, p := range params {
		schema.Properties[p.Name] = parameterToSchema(p)
		if !p.Nullable && p.ParameterDefault == "" {
			schema.Required = append(schema.Required, p.Name)
		}
	}
	return schema
}

func parameterToSchema(p uc.FunctionParameterInfo) *jsonschema.Schema {
	s := &jsonschema.Schema{Description: p.Comment}
	switch p.TypeName {
	case uc.TypeNameInt, uc.TypeNameLong, uc.TypeNameShort, uc.TypeNameByte:
		s.Type = "integer"
	case uc.TypeNameFloat, uc.TypeNameDouble, uc.TypeNameDecimal:
		s.Type = "number"
	case uc.TypeNameBoolean:
		s.Type = "boolean"
	case uc.TypeNameDate:
		s.Type = "string"
		s.Format = "date"
	case uc.TypeNameTimestamp:
		s.Type = "string"
		s.Format = "date-time"
	case uc.TypeNameArray:
		s.Type = "array"
	case uc.TypeNameMap, uc.TypeNameStruct:
		s.Type = "object"
	case uc.TypeNameBinary:
		s.Type = "string"
		s.ContentEncoding = "base64"
	default:
		// STRING, INTERVAL and anything the catalog adds later ride as
		// strings; the catalog coerces on execution.
		s.Type = "string"
	}
	return s
}
