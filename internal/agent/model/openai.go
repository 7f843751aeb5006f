// Package model runs the conversation loop against the OpenAI chat
// completions API, dispatching tool calls requested by the model and feeding
// their results back until the model produces a final answer.
package model

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"pulse-agent-service/internal/agent"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

const defaultMaxIterations = 8

type Config struct {
	Name        string
	Model       string
	Instruction string
	// APIKey overrides the OPENAI_API_KEY environment variable when set.
	APIKey string
	Tools  []agent.Tool
	// MaxIterations bounds the number of model round-trips per invocation.
	MaxIterations int
}

// LLMAgent is the tool-calling agent backed by a chat completion model.
type LLMAgent struct {
	name          string
	model         string
	instruction   string
	client        *openai.Client
	tools         map[string]agent.Tool
	toolParams    []openai.ChatCompletionToolParam
	maxIterations int
	logger        *zap.Logger
}

func NewLLMAgent(cfg Config, logger *zap.Logger) *LLMAgent {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = defaultMaxIterations
	}

	var client openai.Client
	if cfg.APIKey != "" {
		client = openai.NewClient(option.WithAPIKey(cfg.APIKey))
	} else {
		client = openai.NewClient()
	}

	tools := make(map[string]agent.Tool, len(cfg.Tools))
	toolParams := make([]openai.ChatCompletionToolParam, 0, len(cfg.Tools))
	for _, t := range cfg.Tools {
		tools[t.Name()] = t
		toolParams = append(toolParams, openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        t.Name(),
				Description: openai.String(t.Description()),
				Parameters:  openai.FunctionParameters(t.Parameters()),
			},
		})
	}

	return &LLMAgent{
		name:          cfg.Name,
		model:         cfg.Model,
		instruction:   cfg.Instruction,
		client:        &client,
		tools:         tools,
		toolParams:    toolParams,
		maxIterations: cfg.MaxIterations,
		logger:        logger,
	}
}

func (a *LLMAgent) Name() string { return a.name }

// Run drives the tool-calling loop for one invocation. Tool calls requested
// in the same model turn execute concurrently; each one sees the invocation's
// context and with it the request-scoped credential.
func (a *LLMAgent) Run(ctx context.Context, inv *agent.Invocation) error {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(a.instruction),
		openai.UserMessage(inv.Message),
	}

	for i := 0; i < a.maxIterations; i++ {
		params := openai.ChatCompletionNewParams{
			Messages: messages,
			Model:    a.model,
		}
		if len(a.toolParams) > 0 {
			params.Tools = a.toolParams
		}

		resp, err := a.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return fmt.Errorf("model call failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("model returned no choices")
		}
		msg := resp.Choices[0].Message

		if len(msg.ToolCalls) == 0 {
			ev := agent.NewEvent(inv.ID, a.name)
			ev.Text = msg.Content
			inv.Emit(ev)
			return nil
		}

		toolCalls := make([]openai.ChatCompletionMessageToolCallParam, len(msg.ToolCalls))
		for i, tc := range msg.ToolCalls {
			toolCalls[i] = openai.ChatCompletionMessageToolCallParam{
				ID:   tc.ID,
				Type: "function",
				Function: openai.ChatCompletionMessageToolCallFunctionParam{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			}
		}
		messages = append(messages, openai.ChatCompletionMessageParamUnion{
			OfAssistant: &openai.ChatCompletionAssistantMessageParam{
				Role:      "assistant",
				ToolCalls: toolCalls,
			},
		})

		results := a.dispatchToolCalls(ctx, inv, msg.ToolCalls)
		for i, tc := range msg.ToolCalls {
			messages = append(messages, openai.ToolMessage(results[i], tc.ID))
		}
	}

	return fmt.Errorf("model call budget exhausted after %d iterations", a.maxIterations)
}

// dispatchToolCalls executes all requested tool calls concurrently and
// returns their results in request order.
func (a *LLMAgent) dispatchToolCalls(ctx context.Context, inv *agent.Invocation, calls []openai.ChatCompletionMessageToolCall) []string {
	results := make([]string, len(calls))
	var wg sync.WaitGroup
	for i, tc := range calls {
		wg.Add(1)
		go func(i int, tc openai.ChatCompletionMessageToolCall) {
			defer wg.Done()
			results[i] = a.executeToolCall(ctx, inv, tc)
		}(i, tc)
	}
	wg.Wait()
	return results
}

func (a *LLMAgent) executeToolCall(ctx context.Context, inv *agent.Invocation, tc openai.ChatCompletionMessageToolCall) string {
	callEvent := agent.NewEvent(inv.ID, a.name)
	callEvent.FunctionCall = &agent.FunctionCall{
		ID:        tc.ID,
		Name:      tc.Function.Name,
		Arguments: tc.Function.Arguments,
	}
	inv.Emit(callEvent)

	result := a.runTool(ctx, tc)

	resultEvent := agent.NewEvent(inv.ID, a.name)
	resultEvent.FunctionResult = &agent.FunctionResult{
		ID:       tc.ID,
		Name:     tc.Function.Name,
		Response: result,
	}
	inv.Emit(resultEvent)
	return result
}

func (a *LLMAgent) runTool(ctx context.Context, tc openai.ChatCompletionMessageToolCall) string {
	tool, ok := a.tools[tc.Function.Name]
	if !ok {
		return fmt.Sprintf("Error: unknown tool %q", tc.Function.Name)
	}

	args := map[string]interface{}{}
	if tc.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			return fmt.Sprintf("Error: invalid arguments for tool %q: %v", tc.Function.Name, err)
		}
	}

	result, err := tool.Call(ctx, args)
	if err != nil {
		a.logger.Warn("tool call failed",
			zap.String("tool", tc.Function.Name),
			zap.Error(err))
		return fmt.Sprintf("Error executing %s: %v", tc.Function.Name, err)
	}
	return result
}
