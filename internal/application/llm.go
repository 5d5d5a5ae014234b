package application

import (
	"context"

	"home-command/internal/domain"
)

// ToolSpec describes one function the LLM may call. Schema is a JSON-schema
// object in the provider-neutral form both clients translate from.
type ToolSpec struct {
	Name        string
	Description string
	Schema      map[string]any
}

// FunctionResult is what the LLM returned for one turn: free text, zero or
// more tool calls, or both.
type FunctionResult struct {
	Text      string
	ToolCalls []domain.ToolCall
}

// FunctionCaller invokes the LLM with the turn's prompt and tool schema.
type FunctionCaller interface {
	Call(ctx context.Context, systemPrompt string, history []domain.ChatMessage, message string, tools []ToolSpec) (*FunctionResult, error)
}
