package agent

import (
	"fmt"
	"slices"
	"strings"

	"github.com/openai/openai-go"
)

// PromptWrapper collects the segments that make up the system and user
// messages of a turn.
type PromptWrapper struct {
	Memory        []string
	ToolUsage     []string
	systemPrompts []string
	userPrompts   []string
}

func DefaultPromptWrapper() PromptWrapper {
	return PromptWrapper{}
}

func ReActPromptWrapper() PromptWrapper {
	wrapper := PromptWrapper{}
	wrapper.AddSystemPrompt("You are a ReAct-style agent.")
	wrapper.AddToolUsage("Use tools when needed. Think about whether a tool is required, call it with structured arguments, then produce the final answer.")
	return wrapper
}

// Clone returns a copy whose segment slices do not share storage with w.
func (w PromptWrapper) Clone() PromptWrapper {
	return PromptWrapper{
		Memory:        slices.Clone(w.Memory),
		ToolUsage:     slices.Clone(w.ToolUsage),
		systemPrompts: slices.Clone(w.systemPrompts),
		userPrompts:   slices.Clone(w.userPrompts),
	}
}

func (w *PromptWrapper) AddSystemPrompt(prompt string) {
	w.systemPrompts = appendNonBlank(w.systemPrompts, prompt)
}

func (w *PromptWrapper) AddUserPrompt(prompt string) {
	w.userPrompts = appendNonBlank(w.userPrompts, prompt)
}

// AddMemory records an earlier exchange so later turns can refer to it.
func (w *PromptWrapper) AddMemory(memory string) {
	w.Memory = appendNonBlank(w.Memory, memory)
}

func (w *PromptWrapper) AddToolUsage(toolUsage string) {
	w.ToolUsage = appendNonBlank(w.ToolUsage, toolUsage)
}

// WrapMessages builds the system and user messages. Empty messages are
// omitted.
func (w *PromptWrapper) WrapMessages(name, desc string) []openai.ChatCompletionMessageParamUnion {
	systemParts := make([]string, 0, 4+len(w.systemPrompts))
	if name != "" || desc != "" {
		systemParts = append(systemParts, fmt.Sprintf("Agent Name: %s\nAgent Description: %s", name, desc))
	}
	if len(w.Memory) > 0 {
		systemParts = append(systemParts, "Memory:\n"+strings.Join(w.Memory, "\n"))
	}
	if len(w.ToolUsage) > 0 {
		systemParts = append(systemParts, "Tool Usage:\n"+strings.Join(w.ToolUsage, "\n"))
	}
	systemParts = append(systemParts, w.systemPrompts...)

	systemMessage := strings.TrimSpace(strings.Join(systemParts, "\n\n"))
	userMessage := strings.TrimSpace(strings.Join(w.userPrompts, "\n\n"))

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if systemMessage != "" {
		messages = append(messages, openai.SystemMessage(systemMessage))
	}
	if userMessage != "" {
		messages = append(messages, openai.UserMessage(userMessage))
	}
	return messages
}

func appendNonBlank(parts []string, s string) []string {
	if strings.TrimSpace(s) == "" {
		return parts
	}
	return append(parts, s)
}
