package uc

import "strings"

// TypeName enumerates the Unity Catalog parameter and return types surfaced
// by the functions API.
type TypeName string

const (
	TypeNameString    TypeName = "STRING"
	TypeNameInt       TypeName = "INT"
	TypeNameLong      TypeName = "LONG"
	TypeNameShort     TypeName = "SHORT"
	TypeNameByte      TypeName = "BYTE"
	TypeNameFloat     TypeName = "FLOAT"
	TypeNameDouble    TypeName = "DOUBLE"
	TypeNameDecimal   TypeName = "DECIMAL"
	TypeNameBoolean   TypeName = "BOOLEAN"
	TypeNameDate      TypeName = "DATE"
	TypeNameTimestamp TypeName = "TIMESTAMP"
	TypeNameArray     TypeName = "ARRAY"
	TypeNameMap       TypeName = "MAP"
	TypeNameStruct    TypeName = "STRUCT"
	TypeNameBinary    TypeName = "BINARY"
	TypeNameInterval  TypeName = "INTERVAL"
)

// FunctionParameterInfo describes a single input parameter of a catalog
// function.
type FunctionParameterInfo struct {
	Name             string   `json:"name"`
	TypeName         TypeName `json:"type_name"`
	TypeText         string   `json:"type_text,omitempty"`
	TypeJSON         string   `json:"type_json,omitempty"`
	Position         int      `json:"position"`
	Comment          string   `json:"comment,omitempty"`
	Nullable         bool     `json:"nullable,omitempty"`
	ParameterDefault string   `json:"parameter_default,omitempty"`
}

// FunctionParameterInfos wraps the parameter list the way the catalog API
// nests it.
type FunctionParameterInfos struct {
	Parameters []FunctionParameterInfo `json:"parameters,omitempty"`
}

// FunctionInfo is the catalog's description of a registered function.
type FunctionInfo struct {
	Name              string                  `json:"name"`
	CatalogName       string                  `json:"catalog_name"`
	SchemaName        string                  `json:"schema_name"`
	Comment           string                  `json:"comment,omitempty"`
	InputParams       *FunctionParameterInfos `json:"input_params,omitempty"`
	DataType          TypeName                `json:"data_type,omitempty"`
	FullDataType      string                  `json:"full_data_type,omitempty"`
	RoutineBody       string                  `json:"routine_body,omitempty"`
	RoutineDefinition string                  `json:"routine_definition,omitempty"`
	FunctionID        string                  `json:"function_id,omitempty"`
	CreatedAt         int64                   `json:"created_at,omitempty"`
	UpdatedAt         int64                   `json:"updated_at,omitempty"`
}

// FullName returns the three-level "catalog.schema.function" identifier.
func (f *FunctionInfo) FullName() string {
	return strings.Join([]string{f.CatalogName, f.SchemaName, f.Name}, ".")
}

// FunctionList is a single page of a function listing.
type FunctionList struct {
	Functions     []FunctionInfo `json:"functions,omitempty"`
	NextPageToken string         `json:"next_page_token,omitempty"`
}

// FunctionExecutionResult carries the outcome of a server-side function
// execution. Exactly one of Value and Error is set.
type FunctionExecutionResult struct {
	Value string `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}
