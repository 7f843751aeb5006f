package agent

import (
	"context"

	"go.uber.org/zap"
)

const eventBuffer = 32

// Runner executes an agent invocation in a goroutine and exposes its events
// as a channel. The channel closes when the agent finishes.
type Runner struct {
	agent  Agent
	logger *zap.Logger
}

func NewRunner(a Agent, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{agent: a, logger: logger}
}

// AgentName returns the wrapped agent's name.
func (r *Runner) AgentName() string {
	return r.agent.Name()
}

// Run starts the agent and returns its event stream. An agent failure is
// surfaced as a final error event so consumers always see a terminal event.
func (r *Runner) Run(ctx context.Context, inv *Invocation) <-chan Event {
	events := make(chan Event, eventBuffer)
	inv.Emit = func(ev Event) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}

	go func() {
		defer close(events)
		if err := r.agent.Run(ctx, inv); err != nil {
			r.logger.Error("agent run failed",
				zap.String("invocation_id", inv.ID),
				zap.String("session_id", inv.Session),
				zap.Error(err))
			ev := NewEvent(inv.ID, r.agent.Name())
			ev.Text = "I ran into an error while processing your request. Please try again."
			inv.Emit(ev)
		}
	}()
	return events
}
