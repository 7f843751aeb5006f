package session

// CreateSessionRequest is the body of POST /sessions. The email and name are
// optional; when omitted they are derived from the bearer token's claims.
type CreateSessionRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	UserEmail string `json:"user_email"`
	UserName  string `json:"user_name"`
}

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ChatRequest is accepted both as JSON and as multipart form fields. In the
// JSON form FileContent carries the attachment base64-encoded.
type ChatRequest struct {
	Message     string `json:"message" form:"message" binding:"required"`
	FileContent string `json:"file_content" form:"-"`
	FileName    string `json:"file_name" form:"-"`
	FileType    string `json:"file_type" form:"-"`
}

type ChatResponse struct {
	Response  string `json:"response"`
	AgentName string `json:"agent_name"`
}

// SessionStateResponse exposes the raw session state for debugging.
type SessionStateResponse struct {
	SessionID string                 `json:"session_id"`
	State     map[string]interface{} `json:"state"`
}

// SessionInfo is one row of the user's session listing.
type SessionInfo struct {
	SessionID        string `json:"session_id"`
	UserID           string `json:"user_id"`
	UserEmail        string `json:"user_email,omitempty"`
	UserName         string `json:"user_name,omitempty"`
	TokenExpiration  string `json:"token_expiration,omitempty"`
	IsExpired        bool   `json:"is_expired"`
	InteractionCount int    `json:"interaction_count"`
	CreatedAt        string `json:"created_at,omitempty"`
}

type SessionsListResponse struct {
	UserID         string        `json:"user_id"`
	TotalSessions  int           `json:"total_sessions"`
	ActiveSessions int           `json:"active_sessions"`
	Sessions       []SessionInfo `json:"sessions"`
}

type DeleteResponse struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	Note      string `json:"note,omitempty"`
}
