package tools

import "context"

// ToolHandler defines the tool handler signature. args is the raw JSON
// argument object produced by the model.
type ToolHandler func(ctx context.Context, args string) (string, error)

type ToolKind string

const ToolKindTool ToolKind = "tool"

type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
	Handler     ToolHandler    `json:"-"`
	Kind        ToolKind       `json:"kind,omitempty"`
}

type Option func(*Tool)

func New(name string, handler ToolHandler, opts ...Option) Tool {
	t := Tool{
		Name:    name,
		Handler: handler,
		Kind:    ToolKindTool,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

func WithDescription(description string) Option {
	return func(t *Tool) {
		t.Description = description
	}
}

func WithParameters(parameters map[string]any) Option {
	return func(t *Tool) {
		t.Parameters = parameters
	}
}

func ObjectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// ObjectProperty is ObjectSchema with a description, for nested arguments.
func ObjectProperty(description string, properties map[string]any, required ...string) map[string]any {
	prop := ObjectSchema(properties, required...)
	if description != "" {
		prop["description"] = description
	}
	return prop
}

func StringProperty(description string) map[string]any {
	return property("string", description)
}

func IntProperty(description string) map[string]any {
	return property("integer", description)
}

func NumberProperty(description string) map[string]any {
	return property("number", description)
}

func property(typ, description string) map[string]any {
	prop := map[string]any{
		"type": typ,
	}
	if description != "" {
		prop["description"] = description
	}
	return prop
}
