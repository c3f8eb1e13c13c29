package agent

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/myproject/weather-agent/agent/tools"
)

const (
	DefaultName              string  = "Base_agent"
	DefaultDescription       string  = "The basic for the extended intelligent agent"
	DefaultSystemPrompt      string  = "You are a helpful assistant. Use the registered tools when they can answer the user's question."
	DefaultReActSystemPrompt string  = "You are a ReAct-style agent. Think step-by-step, decide when to call tools, and respond with final answers after tool use."
	DefaultMaxCircle         int     = 5
	DefaultTemperature       float32 = 0.5
	DefaultToolWorkers       int     = 4
)

var (
	ErrLoopLimit     = errors.New("agent loop limit exceeded")
	ErrNoChoices     = errors.New("model returned no choices")
	ErrToolsDisabled = errors.New("tool calls disabled")
	tracer           = otel.Tracer("github.com/myproject/weather-agent/agent")
)

type Agent struct {
	Name          string
	Description   string
	client        openai.Client
	model         string
	tools         map[string]tools.Tool
	toolOrder     []string
	promptWrapper PromptWrapper
	systemPrompt  string
	logger        *zap.SugaredLogger
	Maxcircle     int
	Temperature   float32
	AllowTools    bool
	ToolWorkers   int
}

func NewAgent(apiKey string, baseURL string, model string, allowTools bool) *Agent {
	options := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}
	return &Agent{
		Name:          DefaultName,
		Description:   DefaultDescription,
		client:        openai.NewClient(options...),
		model:         model,
		tools:         map[string]tools.Tool{},
		promptWrapper: DefaultPromptWrapper(),
		systemPrompt:  DefaultSystemPrompt,
		logger:        zap.NewNop().Sugar(),
		Maxcircle:     DefaultMaxCircle,
		Temperature:   DefaultTemperature,
		AllowTools:    allowTools,
		ToolWorkers:   DefaultToolWorkers,
	}
}

func (a *Agent) SetName(name string) {
	a.Name = name
}

func (a *Agent) SetDescription(description string) {
	a.Description = description
}

func (a *Agent) SetSystemPrompt(systemPrompt string) {
	a.systemPrompt = systemPrompt
}

func (a *Agent) SystemPrompt() string {
	return a.systemPrompt
}

func (a *Agent) SetPromptWrapper(wrapper PromptWrapper) {
	a.promptWrapper = wrapper
}

func (a *Agent) SetLogger(logger *zap.SugaredLogger) {
	if logger != nil {
		a.logger = logger
	}
}

func (a *Agent) AddSystemPrompt(prompt string) {
	a.promptWrapper.AddSystemPrompt(prompt)
}

func (a *Agent) AddUserPrompt(prompt string) {
	a.promptWrapper.AddUserPrompt(prompt)
}

func (a *Agent) AddMemory(memory string) {
	a.promptWrapper.AddMemory(memory)
}

func (a *Agent) AddToolUsage(toolUsage string) {
	a.promptWrapper.AddToolUsage(toolUsage)
}

// ListTools returns the registered tools in registration order.
func (a *Agent) ListTools() []tools.Tool {
	items := make([]tools.Tool, 0, len(a.toolOrder))
	for _, name := range a.toolOrder {
		items = append(items, a.tools[name])
	}
	return items
}

// RegisterTool adds tool, replacing any earlier tool with the same name.
func (a *Agent) RegisterTool(tool tools.Tool) {
	if tool.Name == "" {
		return
	}
	if tool.Kind == "" {
		tool.Kind = tools.ToolKindTool
	}
	if _, exists := a.tools[tool.Name]; !exists {
		a.toolOrder = append(a.toolOrder, tool.Name)
	}
	a.tools[tool.Name] = tool
}

func (a *Agent) RegisterToolFunc(name string, handler tools.ToolHandler, opts ...tools.Option) {
	a.RegisterTool(tools.New(name, handler, opts...))
}

func (a *Agent) apiTools() []openai.ChatCompletionToolParam {
	params := make([]openai.ChatCompletionToolParam, 0, len(a.toolOrder))
	for _, tool := range a.ListTools() {
		functionDef := openai.FunctionDefinitionParam{
			Name: tool.Name,
		}
		if tool.Description != "" {
			functionDef.Description = openai.String(tool.Description)
		}
		if tool.Parameters != nil {
			functionDef.Parameters = openai.FunctionParameters(tool.Parameters)
		}
		params = append(params, openai.ChatCompletionToolParam{
			Function: functionDef,
		})
	}
	return params
}

// Invoke runs one user turn: it asks the model, executes any tool calls it
// requests, and feeds the results back until the model answers in text or
// Maxcircle rounds have passed.
func (a *Agent) Invoke(ctx context.Context, userQuery string) (string, error) {
	logger := a.logger.With("run_id", uuid.NewString(), "agent", a.Name)

	wrapper := a.promptWrapper.Clone()
	wrapper.AddSystemPrompt(a.systemPrompt)
	wrapper.AddUserPrompt(userQuery)
	messages := wrapper.WrapMessages(a.Name, a.Description)
	apiTools := a.apiTools()

	for i := 1; i <= a.Maxcircle; i++ {
		req := openai.ChatCompletionNewParams{
			Model:    a.model,
			Messages: messages,
		}
		req.Temperature = openai.Float(float64(a.Temperature))
		if a.AllowTools && len(apiTools) > 0 {
			req.Tools = apiTools
		}
		resp, err := a.client.Chat.Completions.New(ctx, req)
		if err != nil {
			return "", fmt.Errorf("llm error: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", ErrNoChoices
		}
		msg := resp.Choices[0].Message
		messages = append(messages, msg.ToParam())
		if !a.AllowTools {
			if len(msg.ToolCalls) > 0 {
				return "", fmt.Errorf("%w but received %d tool calls", ErrToolsDisabled, len(msg.ToolCalls))
			}
			return msg.Content, nil
		}
		if len(msg.ToolCalls) == 0 {
			logger.Debugw("agent answered", "round", i)
			return msg.Content, nil
		}
		results := a.runTools(ctx, logger, msg.ToolCalls)
		for j, toolCall := range msg.ToolCalls {
			messages = append(messages, openai.ToolMessage(results[j], toolCall.ID))
		}
	}
	return "", ErrLoopLimit
}

// runTools executes one round of tool calls on a bounded worker pool.
// results[i] always belongs to calls[i].
func (a *Agent) runTools(ctx context.Context, logger *zap.SugaredLogger, calls []openai.ChatCompletionMessageToolCall) []string {
	results := make([]string, len(calls))
	workers := min(a.ToolWorkers, len(calls))
	if workers <= 1 {
		for i, call := range calls {
			results[i] = a.callTool(ctx, logger, call.Function.Name, call.Function.Arguments)
		}
		return results
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		logger.Warnw("tool pool unavailable, running sequentially", "error", err)
		for i, call := range calls {
			results[i] = a.callTool(ctx, logger, call.Function.Name, call.Function.Arguments)
		}
		return results
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		name, args := call.Function.Name, call.Function.Arguments
		if err := pool.Submit(func() {
			defer wg.Done()
			results[i] = a.callTool(ctx, logger, name, args)
		}); err != nil {
			wg.Done()
			results[i] = fmt.Sprintf("Error executing tool: %v", err)
		}
	}
	wg.Wait()
	return results
}

// callTool runs one handler. A panicking handler is reported to the model
// like any other tool error.
func (a *Agent) callTool(ctx context.Context, logger *zap.SugaredLogger, name, args string) (result string) {
	ctx, span := tracer.Start(ctx, "tool "+name)
	defer span.End()
	span.SetAttributes(attribute.String("tool.name", name))
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("tool %s panicked: %v", name, r)
			logger.Errorw("tool panicked", "tool", name, "panic", r, "stack", string(debug.Stack()))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			result = fmt.Sprintf("Error executing tool: %v", err)
		}
	}()

	tool, exists := a.tools[name]
	if !exists || tool.Handler == nil {
		logger.Warnw("tool not found", "tool", name)
		span.SetStatus(codes.Error, "tool not found")
		return fmt.Sprintf("Error: tool %q is not registered", name)
	}
	logger.Infow("agent calling tool", "tool", name, "args", args)
	result, err := tool.Handler(ctx, args)
	if err != nil {
		logger.Warnw("tool failed", "tool", name, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if result == "" {
			result = fmt.Sprintf("Error executing tool: %v", err)
		}
	}
	return result
}
