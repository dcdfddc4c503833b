package chat

import (
	"encoding/json"
	"fmt"
)

// ToolType is the kind of tool. The service currently only supports
// functions.
type ToolType string

const ToolTypeFunction ToolType = "function"

func (t *ToolType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if ToolType(s) != ToolTypeFunction {
		return &DecodeError{
			Kind:  DecodeKindTypeMismatch,
			Field: "type",
			Err:   fmt.Errorf("unknown tool type %q", s),
		}
	}
	*t = ToolType(s)
	return nil
}

// Tool declares a function the model may call.
type Tool struct {
	Type     ToolType     `json:"type"`
	Function FunctionInfo `json:"function"`
}

// FunctionInfo describes a callable function. Parameters is a JSON Schema
// object passed through opaque; this layer never validates it.
type FunctionInfo struct {
	Description string          `json:"description"`
	Name        string          `json:"name"`
	Parameters  json.RawMessage `json:"parameters"`
}

// NewFunctionTool builds a function tool definition.
func NewFunctionTool(name, description string, parameters json.RawMessage) Tool {
	return Tool{
		Type: ToolTypeFunction,
		Function: FunctionInfo{
			Description: description,
			Name:        name,
			Parameters:  parameters,
		},
	}
}

// ToolCall is a function invocation the model emitted instead of plain text.
// Arguments is the raw JSON-encoded argument string, untouched by this layer.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     ToolType     `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall names the function the model called and its arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type toolChoiceKind int

const (
	toolChoiceNone toolChoiceKind = iota
	toolChoiceAuto
	toolChoiceFunction
)

// ToolChoice controls whether the model may call tools: never ("none"), at
// its own discretion ("auto"), or forced to one function by name. The zero
// value is "none".
type ToolChoice struct {
	kind toolChoiceKind
	name string
}

// ToolChoiceNone forbids tool calls; the model generates a message.
func ToolChoiceNone() ToolChoice { return ToolChoice{kind: toolChoiceNone} }

// ToolChoiceAuto lets the model pick between a message and tool calls.
func ToolChoiceAuto() ToolChoice { return ToolChoice{kind: toolChoiceAuto} }

// ToolChoiceFunction forces the model to call the named function. Whether the
// request's tools actually contain a matching entry is not checked here.
func ToolChoiceFunction(name string) ToolChoice {
	return ToolChoice{kind: toolChoiceFunction, name: name}
}

func (tc ToolChoice) MarshalJSON() ([]byte, error) {
	switch tc.kind {
	case toolChoiceAuto:
		return json.Marshal("auto")
	case toolChoiceFunction:
		var v struct {
			Function struct {
				Type ToolType `json:"type"`
				Name string   `json:"name"`
			} `json:"function"`
		}
		v.Function.Type = ToolTypeFunction
		v.Function.Name = tc.name
		return json.Marshal(v)
	default:
		return json.Marshal("none")
	}
}
