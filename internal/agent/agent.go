package agent

import (
	"context"

	"github.com/google/uuid"
)

// Tool is a structured capability the agent can invoke. Call receives the
// request context, so request-scoped credentials flow into tool execution.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]interface{}
	Call(ctx context.Context, args map[string]interface{}) (string, error)
}

// Invocation is one turn of the conversation handed to an agent.
type Invocation struct {
	ID      string
	UserID  string
	Session string
	Message string

	// Emit delivers events to the caller. It must not be used after Run
	// returns.
	Emit func(Event)
}

// NewInvocation builds an invocation with a generated id.
func NewInvocation(userID, sessionID, message string) *Invocation {
	return &Invocation{
		ID:      uuid.NewString(),
		UserID:  userID,
		Session: sessionID,
		Message: message,
	}
}

// Agent produces events for an invocation. Implementations emit zero or more
// intermediate events followed by one final response event.
type Agent interface {
	Name() string
	Run(ctx context.Context, inv *Invocation) error
}
