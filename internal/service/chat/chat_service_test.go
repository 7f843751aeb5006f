package chat

import (
	"context"
	"testing"
	"time"

	"pulse-agent-service/internal/agent"
	domain "pulse-agent-service/internal/domain/session"
	xerrors "pulse-agent-service/internal/pkg/errors"
	"pulse-agent-service/internal/pkg/tokenctx"
	"pulse-agent-service/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testApp = "pulse-epm-agent"

// echoAgent answers with a fixed text and records the credential it saw.
type echoAgent struct {
	name      string
	reply     string
	seenToken string
	silent    bool
}

func (a *echoAgent) Name() string { return a.name }

func (a *echoAgent) Run(ctx context.Context, inv *agent.Invocation) error {
	a.seenToken, _ = tokenctx.FromContext(ctx)

	call := agent.NewEvent(inv.ID, a.name)
	call.FunctionCall = &agent.FunctionCall{ID: "fc-1", Name: "list_goals", Arguments: "{}"}
	inv.Emit(call)

	if a.silent {
		return nil
	}
	final := agent.NewEvent(inv.ID, a.name)
	final.Text = a.reply
	inv.Emit(final)
	return nil
}

func newFixture(t *testing.T, a agent.Agent) (*Service, *memory.SessionStore, string) {
	t.Helper()
	store := memory.NewSessionStore()
	created, err := store.Create(context.Background(), testApp, "u1",
		domain.InitialState("session-token", "a@x.com", "Alice", "u1", time.Now().Add(time.Hour), time.Now()))
	require.NoError(t, err)

	svc := NewService(store, agent.NewRunner(a, nil), testApp, nil)
	return svc, store, created.ID
}

func TestChat_RecordsHistoryAndReturnsResponse(t *testing.T) {
	a := &echoAgent{name: "pulse_performance_agent", reply: "  All goals listed.  "}
	svc, store, sessionID := newFixture(t, a)

	resp, err := svc.Chat(context.Background(), "u1", sessionID, "list my goals")
	require.NoError(t, err)
	assert.Equal(t, "All goals listed.", resp.Response)
	assert.Equal(t, "pulse_performance_agent", resp.AgentName)

	sess, err := store.Get(context.Background(), testApp, "u1", sessionID)
	require.NoError(t, err)
	history := sess.History()
	require.Len(t, history, 2)

	first := history[0].(map[string]interface{})
	assert.Equal(t, domain.ActionUserQuery, first["action"])
	assert.Equal(t, "list my goals", first["query"])

	second := history[1].(map[string]interface{})
	assert.Equal(t, domain.ActionAgentResponse, second["action"])
	assert.Equal(t, "All goals listed.", second["response"])
	assert.Equal(t, "pulse_performance_agent", second["agent"])
}

func TestChat_PublishesSessionTokenToAgent(t *testing.T) {
	a := &echoAgent{name: "agent", reply: "ok"}
	svc, _, sessionID := newFixture(t, a)

	_, err := svc.Chat(context.Background(), "u1", sessionID, "hi")
	require.NoError(t, err)
	assert.Equal(t, "session-token", a.seenToken)
}

func TestChat_SessionNotFound(t *testing.T) {
	svc, _, _ := newFixture(t, &echoAgent{name: "agent", reply: "ok"})

	_, err := svc.Chat(context.Background(), "u1", "missing", "hi")
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, xerrors.ErrNotFound))
}

func TestChat_MissingStoredToken(t *testing.T) {
	store := memory.NewSessionStore()
	created, err := store.Create(context.Background(), testApp, "u1", map[string]interface{}{})
	require.NoError(t, err)

	svc := NewService(store, agent.NewRunner(&echoAgent{name: "agent", reply: "ok"}, nil), testApp, nil)
	_, err = svc.Chat(context.Background(), "u1", created.ID, "hi")
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, xerrors.ErrValidation))
	assert.Contains(t, err.Error(), "JWT token not found in session state")
}

func TestChat_ExpiredStoredToken(t *testing.T) {
	store := memory.NewSessionStore()
	created, err := store.Create(context.Background(), testApp, "u1",
		domain.InitialState("tok", "a@x.com", "Alice", "u1", time.Now().Add(-time.Minute), time.Now()))
	require.NoError(t, err)

	svc := NewService(store, agent.NewRunner(&echoAgent{name: "agent", reply: "ok"}, nil), testApp, nil)
	_, err = svc.Chat(context.Background(), "u1", created.ID, "hi")
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, xerrors.ErrAuthentication))
	assert.Contains(t, err.Error(), "expired")
}

func TestChat_UnparsableExpirySkipsCheck(t *testing.T) {
	store := memory.NewSessionStore()
	created, err := store.Create(context.Background(), testApp, "u1", map[string]interface{}{
		domain.StateJWTToken:    "tok",
		domain.StateTokenExpiry: "not-a-date",
		domain.StateHistory:     []interface{}{},
	})
	require.NoError(t, err)

	svc := NewService(store, agent.NewRunner(&echoAgent{name: "agent", reply: "ok"}, nil), testApp, nil)
	resp, err := svc.Chat(context.Background(), "u1", created.ID, "hi")
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Response)
}

func TestChat_NoFinalResponsePlaceholder(t *testing.T) {
	a := &echoAgent{name: "agent", silent: true}
	svc, store, sessionID := newFixture(t, a)

	resp, err := svc.Chat(context.Background(), "u1", sessionID, "hi")
	require.NoError(t, err)
	assert.Equal(t, "No response from agent", resp.Response)

	// Only the user query is recorded when the agent never answers.
	sess, err := store.Get(context.Background(), testApp, "u1", sessionID)
	require.NoError(t, err)
	assert.Len(t, sess.History(), 1)
}

func TestStream_ForwardsEvents(t *testing.T) {
	a := &echoAgent{name: "agent", reply: "done"}
	svc, _, sessionID := newFixture(t, a)

	var events []agent.Event
	resp, err := svc.Stream(context.Background(), "u1", sessionID, "hi", func(ev agent.Event) error {
		events = append(events, ev)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "done", resp.Response)

	require.Len(t, events, 2)
	assert.NotNil(t, events[0].FunctionCall)
	assert.True(t, events[1].IsFinalResponse())
}
