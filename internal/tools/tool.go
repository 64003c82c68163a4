// Package tools provides the agent tool registry and its built-in tools.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// Name identifies a registered tool.
type Name string

// Built-in tool names.
const (
	NameSearchWeb     Name = "search_web"
	NameQueryDatabase Name = "query_database"
)

// NotFoundText is returned when dispatching an unregistered tool name.
const NotFoundText = "Error: Tool not found."

// InvalidArgsText is returned when the tool arguments are not a JSON object.
const InvalidArgsText = "Error: Tool arguments must be a JSON object."

// Result is a tool outcome. Text is always human-readable; Failed marks
// results that describe an error rather than data.
type Result struct {
	Text   string
	Failed bool
}

// OK wraps successful output.
func OK(text string) Result {
	return Result{Text: text}
}

// Failure builds a failed result as "{label}: {err}".
func Failure(label string, err error) Result {
	return Result{Text: fmt.Sprintf("%s: %v", label, err), Failed: true}
}

// Tool is an action the external agent can invoke.
type Tool interface {
	Name() Name
	Description() string
	// Parameters returns the JSON schema for the tool's arguments.
	Parameters() map[string]any
	// Execute never returns an error; failures are reported in the Result.
	Execute(ctx context.Context, args map[string]any) Result
}

// ObjectSchema describes a JSON-schema object using typed properties.
type ObjectSchema struct {
	Type       string                 `json:"type"`
	Properties map[string]ParamSchema `json:"properties"`
	Required   []string               `json:"required,omitempty"`
}

// ParamSchema describes a single JSON-schema parameter.
type ParamSchema struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// singleStringParam is the schema for tools taking one required string.
func singleStringParam(name, description string) map[string]any {
	return MustSchemaMap(ObjectSchema{
		Type: "object",
		Properties: map[string]ParamSchema{
			name: {Type: "string", Description: description},
		},
		Required: []string{name},
	})
}

// MustSchemaMap converts typed schema structs to the map form sent to agents.
func MustSchemaMap[T any](schema T) map[string]any {
	raw, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("marshal schema: %v", err))
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(fmt.Sprintf("unmarshal schema: %v", err))
	}
	return out
}

// DecodeArgs decodes map-style tool arguments into a typed struct.
func DecodeArgs[T any](args map[string]any) (T, error) {
	var out T
	raw, err := json.Marshal(args)
	if err != nil {
		return out, fmt.Errorf("marshal args: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode args: %w", err)
	}
	return out, nil
}
