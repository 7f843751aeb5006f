// Package agent defines the runtime boundary between the HTTP orchestrator
// and the LLM-driven agent: events, the agent contract, and the runner that
// streams events back to callers.
package agent

import (
	"time"

	"github.com/google/uuid"
)

// FunctionCall describes a tool invocation requested by the model.
type FunctionCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// FunctionResult carries the outcome of a tool invocation.
type FunctionResult struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Response string `json:"response"`
}

// Event is one unit of agent output: intermediate tool activity or the final
// response text.
type Event struct {
	ID             string          `json:"id"`
	InvocationID   string          `json:"invocation_id"`
	Author         string          `json:"author"`
	Text           string          `json:"text,omitempty"`
	FunctionCall   *FunctionCall   `json:"function_call,omitempty"`
	FunctionResult *FunctionResult `json:"function_result,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}

// NewEvent creates an event attributed to author within an invocation.
func NewEvent(invocationID, author string) Event {
	return Event{
		ID:           uuid.NewString(),
		InvocationID: invocationID,
		Author:       author,
		Timestamp:    time.Now().UTC(),
	}
}

// IsFinalResponse reports whether this event carries the conversation-facing
// answer: text content with no pending tool activity.
func (e Event) IsFinalResponse() bool {
	return e.Text != "" && e.FunctionCall == nil && e.FunctionResult == nil
}
