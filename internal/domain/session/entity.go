package session

import (
	"time"
)

// State keys. The session state is an opaque JSON object; these are the keys
// the service itself reads and writes.
const (
	StateJWTToken       = "jwt_token"
	StateUserEmail      = "user_email"
	StateUserName       = "user_name"
	StateUserID         = "user_id"
	StateHistory        = "interaction_history"
	StateCreatedAt      = "created_at"
	StateTokenExpiresAt = "token_expires_at" // epoch seconds, preferred
	StateTokenExpiry    = "token_expiration" // ISO-8601 fallback
)

// Entry action kinds.
const (
	ActionUserQuery     = "user_query"
	ActionAgentResponse = "agent_response"
)

// entryTimeLayout is the wall-clock format stamped onto history entries.
const entryTimeLayout = "2006-01-02 15:04:05"

// Entry is one record of the interaction history: a user query or an agent
// response. Entries are opaque key/value objects with an `action`
// discriminator; they are appended in order and never mutated.
type Entry map[string]interface{}

// UserQuery builds a history entry for a user message.
func UserQuery(query string) Entry {
	return Entry{"action": ActionUserQuery, "query": query}
}

// AgentResponse builds a history entry for an agent reply.
func AgentResponse(agentName, response string) Entry {
	return Entry{"action": ActionAgentResponse, "agent": agentName, "response": response}
}

// EnsureTimestamp stamps the entry with the current wall-clock time if the
// caller did not set one.
func (e Entry) EnsureTimestamp(now time.Time) {
	if _, ok := e["timestamp"]; !ok {
		e["timestamp"] = now.Format(entryTimeLayout)
	}
}

// Session is a durable conversation context identified by
// (app name, user id, session id). Its state embeds the bearer credential,
// display fields, expiry and the append-only interaction history.
type Session struct {
	AppName   string                 `json:"app_name"`
	UserID    string                 `json:"user_id"`
	ID        string                 `json:"id"`
	State     map[string]interface{} `json:"state"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// InitialState builds the state for a freshly created session. The credential
// expiry, once embedded here, is immutable for the session's lifetime.
func InitialState(jwtToken, userEmail, userName, userID string, expiration time.Time, now time.Time) map[string]interface{} {
	state := map[string]interface{}{
		StateJWTToken:  jwtToken,
		StateUserEmail: userEmail,
		StateUserName:  userName,
		StateHistory:   []interface{}{},
		StateCreatedAt: now.UTC().Format(time.RFC3339),
	}
	if userID != "" {
		state[StateUserID] = userID
	}
	if !expiration.IsZero() {
		state[StateTokenExpiry] = expiration.UTC().Format(time.RFC3339)
		state[StateTokenExpiresAt] = float64(expiration.Unix())
	}
	return state
}

func (s *Session) stringState(key string) string {
	if s.State == nil {
		return ""
	}
	if v, ok := s.State[key].(string); ok {
		return v
	}
	return ""
}

// Token returns the stored bearer credential, or "".
func (s *Session) Token() string { return s.stringState(StateJWTToken) }

// Email returns the stored user email, or "".
func (s *Session) Email() string { return s.stringState(StateUserEmail) }

// Name returns the stored display name, or "".
func (s *Session) Name() string { return s.stringState(StateUserName) }

// StateUserIDValue returns the user id recorded in state, or "".
func (s *Session) StateUserIDValue() string { return s.stringState(StateUserID) }

// CreatedAtString returns the creation timestamp recorded in state, or "".
func (s *Session) CreatedAtString() string { return s.stringState(StateCreatedAt) }

// TokenExpiryString returns the ISO-8601 expiry recorded in state, or "".
func (s *Session) TokenExpiryString() string { return s.stringState(StateTokenExpiry) }

// History returns the interaction history in insertion order.
func (s *Session) History() []interface{} {
	if s.State == nil {
		return nil
	}
	if h, ok := s.State[StateHistory].([]interface{}); ok {
		return h
	}
	return nil
}

// InteractionCount is derived from the history length.
func (s *Session) InteractionCount() int { return len(s.History()) }

// ExpiresAt resolves the stored credential expiry. The numeric epoch field is
// preferred; the ISO-8601 string is a fallback. Unparsable values yield
// ok=false so callers skip the expiry check instead of failing.
func (s *Session) ExpiresAt() (time.Time, bool) {
	if s.State == nil {
		return time.Time{}, false
	}
	switch v := s.State[StateTokenExpiresAt].(type) {
	case float64:
		return time.Unix(int64(v), 0), true
	case int64:
		return time.Unix(v, 0), true
	}
	if iso := s.TokenExpiryString(); iso != "" {
		if t, err := time.Parse(time.RFC3339, iso); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsExpired reports whether the stored credential expiry has passed. Sessions
// without a resolvable expiry are treated as unexpired.
func (s *Session) IsExpired(now time.Time) bool {
	expiry, ok := s.ExpiresAt()
	return ok && expiry.Before(now)
}
