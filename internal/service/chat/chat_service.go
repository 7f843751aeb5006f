// Package chat orchestrates one conversation turn: it resolves the session's
// stored credential, publishes it into the request context, records history
// and drives the agent runner to a final response.
package chat

import (
	"context"
	"strings"
	"time"

	"pulse-agent-service/internal/agent"
	domain "pulse-agent-service/internal/domain/session"
	xerrors "pulse-agent-service/internal/pkg/errors"
	"pulse-agent-service/internal/pkg/tokenctx"

	"go.uber.org/zap"
)

const noResponsePlaceholder = "No response from agent"

type Service struct {
	store   domain.Store
	runner  *agent.Runner
	appName string
	logger  *zap.Logger
}

func NewService(store domain.Store, runner *agent.Runner, appName string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, runner: runner, appName: appName, logger: logger}
}

// Chat runs one conversation turn and returns the agent's final response.
func (s *Service) Chat(ctx context.Context, userID, sessionID, message string) (*domain.ChatResponse, error) {
	return s.Stream(ctx, userID, sessionID, message, nil)
}

// Stream runs one conversation turn, forwarding every agent event to sink
// when one is given. A sink failure stops event forwarding but the turn still
// completes.
func (s *Service) Stream(ctx context.Context, userID, sessionID, message string, sink func(agent.Event) error) (*domain.ChatResponse, error) {
	sess, err := s.store.Get(ctx, s.appName, userID, sessionID)
	if err != nil {
		return nil, err
	}

	token := sess.Token()
	if token == "" {
		return nil, xerrors.Wrap(xerrors.ErrValidation,
			"JWT token not found in session state. Please create a new session with Authorization header")
	}
	if expiry, ok := sess.ExpiresAt(); ok && expiry.Before(time.Now()) {
		return nil, xerrors.Wrapf(xerrors.ErrAuthentication,
			"JWT token in session has expired at %s. Please create a new session",
			expiry.UTC().Format(time.RFC3339))
	}

	// Every tool call spawned by this turn authenticates with this token.
	ctx = tokenctx.WithToken(ctx, token)

	if err := s.store.AppendEntry(ctx, s.appName, userID, sessionID, domain.UserQuery(message)); err != nil {
		s.logger.Error("failed to record user query",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return nil, xerrors.Wrap(xerrors.ErrInternal, "failed to record user query")
	}

	inv := agent.NewInvocation(userID, sessionID, message)
	events := s.runner.Run(ctx, inv)

	var finalResponse, agentName string
	forward := sink != nil
	for ev := range events {
		if ev.Author != "" {
			agentName = ev.Author
		}
		if ev.IsFinalResponse() {
			finalResponse = strings.TrimSpace(ev.Text)
		}
		if forward {
			if err := sink(ev); err != nil {
				s.logger.Warn("event sink failed, stopping forwarding",
					zap.String("session_id", sessionID),
					zap.Error(err))
				forward = false
			}
		}
	}

	if finalResponse != "" && agentName != "" {
		if err := s.store.AppendEntry(ctx, s.appName, userID, sessionID, domain.AgentResponse(agentName, finalResponse)); err != nil {
			s.logger.Error("failed to record agent response",
				zap.String("session_id", sessionID),
				zap.Error(err))
		}
	}
	if finalResponse == "" {
		finalResponse = noResponsePlaceholder
	}

	return &domain.ChatResponse{
		Response:  finalResponse,
		AgentName: agentName,
	}, nil
}
